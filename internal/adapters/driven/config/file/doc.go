// Package file loads and writes the engine configuration file. TOML is the
// default format; files ending in .yaml or .yml are read as YAML.
package file
