package kv

import "errors"

// ErrCorrupt marks a deserialization failure: the bytes handed to the codec
// did not describe a well-formed value. The AOL distinguishes this from a
// torn tail using the outer frame's declared size.
var ErrCorrupt = errors.New("kv: corrupt encoding")
