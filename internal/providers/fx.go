package providers

import (
	"github.com/glanzwerk/invoicing/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	pdf.Module,
)
