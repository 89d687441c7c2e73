package common

import (
	"os"
	"testing"
)

func IsTestEnv() bool {
	return testing.Testing()
}

func IsDevelopment() bool {
	return os.Getenv(EnvKeyGoEnv) == "development"
}

func IsProduction() bool {
	return os.Getenv(EnvKeyGoEnv) == "production"
}

// Mapper transforms a slice element-wise; used to build remote write batches
// from local rows.
func Mapper[T any, R any](items []T, mapFn func(T) R) []R {
	mapped := make([]R, len(items))
	for i, item := range items {
		mapped[i] = mapFn(item)
	}
	return mapped
}

// Reducer folds items left to right onto initAcc; used for intake totals.
func Reducer[T any, R any](items []T, reduceFn func(R, T) R, initAcc R) R {
	acc := initAcc
	for _, item := range items {
		acc = reduceFn(acc, item)
	}
	return acc
}
