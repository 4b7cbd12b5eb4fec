//go:build cgo && amd64

package clock

/*
#include <stdint.h>

static inline uint64_t ma_timing_rdtscp(void) {
	unsigned int aux;
	return __builtin_ia32_rdtscp(&aux);
}
*/
import "C"

// readCounter issues a serializing RDTSCP read. RDTSCP itself waits for all
// prior instructions to retire before reading the counter, which gives
// Timer.Start/Timer.Stop a load-fence around the timed region without a
// separate fence instruction.
func readCounter() uint64 {
	return uint64(C.ma_timing_rdtscp())
}
