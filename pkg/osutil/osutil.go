package osutil

import "time"

// WaitDelay bounds how long Wait keeps draining output pipes after a
// cancelled command has been killed
const WaitDelay = 2 * time.Second
