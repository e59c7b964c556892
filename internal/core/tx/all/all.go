// Package all registers every transaction type and the hook processor.
// Import it for side effects wherever transactions are decoded or applied.
package all

import (
	_ "github.com/LeJamon/goXahaud/internal/core/tx/hook"
	_ "github.com/LeJamon/goXahaud/internal/core/tx/paychan"
)
