package changes

import "errors"

// ErrNoWatcherService indicates that no watcher service was provided.
var ErrNoWatcherService = errors.New("watcher service is required")
