// Command placeholder is a deliberate no-op pipeline step. It holds a slot
// in the graph where a data preparation stage will eventually run.
package main

import (
	"log/slog"
	"os"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger.Info("placeholder step started")
	logger.Info("placeholder step done, nothing to do")
}
