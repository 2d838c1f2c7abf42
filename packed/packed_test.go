package packed

import "github.com/gostdlib/base/context"

func testCtx() context.Context {
	return context.Background()
}
