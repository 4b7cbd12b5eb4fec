// Command cabi builds the C-callable shared/static library wrapping the
// timer package (see the cabi package doc). Build with:
//
//	go build -buildmode=c-shared -o libmatiming.so ./cmd/cabi
//
// main itself does nothing when run directly; cgo's //export machinery is
// what makes the functions below callable from C.
package main

import "C"

import (
	"github.com/louisponet/ma-timing/cabi"
)

//export CreateTimer
func CreateTimer(name *C.char) C.longlong {
	return C.longlong(cabi.CreateTimer(C.GoString(name)))
}

//export DestroyTimer
func DestroyTimer(handle C.longlong) {
	cabi.DestroyTimer(int64(handle))
}

//export StartTimer
func StartTimer(handle C.longlong) {
	cabi.Start(int64(handle))
}

//export StopTimer
func StopTimer(handle C.longlong) {
	cabi.Stop(int64(handle))
}

//export TimerLatency
func TimerLatency(handle C.longlong, ingestionCycles C.ulonglong) {
	cabi.Latency(int64(handle), uint64(ingestionCycles))
}

//export NowCycles
func NowCycles() C.ulonglong {
	return C.ulonglong(cabi.NowCycles())
}

func main() {}
