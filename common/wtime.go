package common

import (
	"sync"
	"time"
)

// Timer slots used by the benchmark commands.
const (
	T_INIT  = 0
	T_WARM  = 1
	T_BENCH = 2
	T_SAVE  = 3
	T_LAST  = 4
)

var (
	timerMu sync.Mutex
	start   [T_LAST]time.Time
	elapsed [T_LAST]time.Duration
)

func TimerClear(n int) {
	timerMu.Lock()
	elapsed[n] = 0
	timerMu.Unlock()
}

func TimerStart(n int) {
	timerMu.Lock()
	start[n] = time.Now()
	timerMu.Unlock()
}

// TimerStop accumulates the time since the matching TimerStart.
func TimerStop(n int) {
	now := time.Now()
	timerMu.Lock()
	elapsed[n] += now.Sub(start[n])
	timerMu.Unlock()
}

// TimerRead returns the accumulated seconds of slot n.
func TimerRead(n int) float64 {
	timerMu.Lock()
	defer timerMu.Unlock()
	return elapsed[n].Seconds()
}
