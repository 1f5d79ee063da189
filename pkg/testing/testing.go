package testing

import (
	"os"
	"path"
	"runtime"
)

func init() {
	// cd to the project root when testing, so the logger writes under the
	// repo's logs/ directory no matter which package runs. usage is
	//
	//   in some_test.go,
	//   import (
	//     _ "heliosdash.xyz/solar-monitor-service/pkg/testing"
	//   )

	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "..", "..")
	err := os.Chdir(dir)
	if err != nil {
		panic(err)
	}
}
