package redux

import (
	"bytes"
	"runtime"
	"strconv"
)

var goroutinePrefix = []byte("goroutine ")

// goroutineID reads the running goroutine's number from its stack header.
// It returns 0 when the header cannot be parsed.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	header := bytes.TrimPrefix(buf[:n], goroutinePrefix)
	if i := bytes.IndexByte(header, ' '); i >= 0 {
		header = header[:i]
	}
	id, err := strconv.ParseUint(string(header), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
