package web

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"shop-backoffice/internal/export"
)

func (h *Handler) exportSales(w http.ResponseWriter, r *http.Request) {
	h.writeWorkbook(w, r, "sales.xlsx", h.svc.ExportSales)
}

func (h *Handler) exportStock(w http.ResponseWriter, r *http.Request) {
	h.writeWorkbook(w, r, "stock.xlsx", h.svc.ExportStock)
}

// writeWorkbook buffers the workbook so a failure can still answer 500.
func (h *Handler) writeWorkbook(w http.ResponseWriter, r *http.Request, filename string, build func(context.Context, io.Writer) error) {
	var buf bytes.Buffer
	if err := build(r.Context(), &buf); err != nil {
		h.logger.WithField("file", filename).WithError(err).Error("export failed")
		writePageError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}
