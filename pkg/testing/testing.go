package testing

import (
	"os"
	"path"
	"runtime"
)

func init() {
	// cd to the repo root so tests that touch relative paths (logs dir, .env)
	// behave the same no matter which package runs them; import as
	//
	//   _ "github.com/izawa-yuka/uruoi/pkg/testing"

	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "..", "..")
	err := os.Chdir(dir)
	if err != nil {
		panic(err)
	}
}
