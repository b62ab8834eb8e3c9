package connection

import "time"

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// RealClock is the production clock; tests inject their own.
func RealClock() realClock {
	return realClock{}
}
