package trust

import (
	"io"

	"github.com/msalhab/deedbridge/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewJSONLogger(io.Discard)
}
