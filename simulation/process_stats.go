package simulation

import "syscall"

// processUserTime, processSystemTime and processHighWaterMark read the
// process's own resource usage via getrusage(2), mirroring
// original_source's use of /proc/self/stat and getrusage for the
// user_time/system_time/linux_high_water_mark Result fields. No
// ecosystem library in the retrieval pack wraps getrusage; the syscall
// package is the standard, idiomatic way to reach it from Go.
func processUserTime() float64 {
	var ru syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	return float64(ru.Utime.Sec) + float64(ru.Utime.Usec)/1e6
}

func processSystemTime() float64 {
	var ru syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	return float64(ru.Stime.Sec) + float64(ru.Stime.Usec)/1e6
}

// processHighWaterMark returns the peak resident set size as ru_maxrss
// reports it, or 0 if unavailable. ru_maxrss is in bytes on some platforms and
// kilobytes on Linux; we report it as given by Linux (kilobytes),
// matching original_source's own linux_high_water_mark semantics.
func processHighWaterMark() int64 {
	var ru syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	return int64(ru.Maxrss)
}
