package server

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/glanzwerk/invoicing/internal/invoice/domain"
	"github.com/glanzwerk/invoicing/internal/invoice/render"
	"github.com/gosimple/slug"
)

type serviceView struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	NetPrice    string `json:"net_price"`
}

func (s *Server) ListServices(c *gin.Context) {
	defs := s.catalog.Current().Services.Services()
	items := make([]serviceView, 0, len(defs))
	for _, def := range defs {
		items = append(items, serviceView{
			Key:         def.Key,
			Name:        def.Name,
			Description: def.Description,
			NetPrice:    def.NetPrice.StringFixed(2),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GenerateInvoice(c *gin.Context) {
	var req domain.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	out, err := s.invoices.Generate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Set("invoice_number", out.Record.InvoiceNumber)
	c.Header("Content-Disposition", contentDisposition(out.Filename, out.Record))
	c.Data(http.StatusOK, out.ContentType, out.Body)
}

func (s *Server) PreviewInvoice(c *gin.Context) {
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", "json")))
	if format != "json" && format != "html" {
		AbortWithError(c, newValidationError("format", "invalid_format", "format must be json or html"))
		return
	}

	var req domain.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	rec, err := s.invoices.Preview(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Set("invoice_number", rec.InvoiceNumber)

	if format == "json" {
		c.JSON(http.StatusOK, gin.H{"data": rec})
		return
	}

	page, err := s.preview.RenderHTML(render.RenderInput{
		Record:      rec,
		Company:     s.layout.Profile(),
		AccentColor: c.Query("accent"),
	})
	if err != nil {
		AbortWithError(c, errors.Join(ErrInternal, err))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// contentDisposition names the download. Non-ASCII names get an RFC 5987
// filename* parameter and a transliterated ASCII filename for old clients.
func contentDisposition(filename string, rec domain.Record) string {
	fallback := filename
	if !isPlainASCII(filename) {
		customer := strings.ReplaceAll(slug.MakeLang(rec.CustomerName, "de"), "-", "_")
		if customer == "" {
			customer = "Kunde"
		}
		fallback = fmt.Sprintf("Rechnung_%s_%s.pdf", rec.InvoiceNumber, customer)
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": fallback})
	if fallback != filename {
		extended := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
		disposition += strings.TrimPrefix(extended, "attachment")
	}
	return disposition
}

func isPlainASCII(value string) bool {
	for _, r := range value {
		if r < 0x20 || r > 0x7e {
			return false
		}
	}
	return true
}
