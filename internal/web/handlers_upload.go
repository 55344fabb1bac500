package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/freightdash/internal/core"
	"github.com/JonMunkholm/freightdash/internal/logging"
	"github.com/JonMunkholm/freightdash/internal/notify"
)

// multipartOverhead is the slack allowed on top of the file size limit
// for multipart boundaries and headers.
const multipartOverhead = 64 << 10

// handleImportLoads appends the loads of an uploaded CSV file.
// The whole file is decoded in memory; rows that fail validation are
// skipped and counted, file-level problems reject the upload.
func (s *Server) handleImportLoads(w http.ResponseWriter, r *http.Request) {
	const failed = "Failed To Import CSV"
	back := loadsBack(r)

	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			err = core.ErrFileTooLarge
		} else {
			err = fmt.Errorf("%w: %v", core.ErrNotCSV, err)
		}
		s.respondError(w, r, failed, err, statusFor(err), back)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, failed, fmt.Errorf("%w: no file provided", core.ErrNotCSV), http.StatusBadRequest, back)
		return
	}
	defer file.Close()

	if err := core.CheckImportFile(header.Filename, header.Header.Get("Content-Type")); err != nil {
		s.respondError(w, r, failed, err, statusFor(err), back)
		return
	}
	if header.Size > maxSize {
		s.respondError(w, r, failed, core.ErrFileTooLarge, http.StatusRequestEntityTooLarge, back)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		s.respondError(w, r, failed, fmt.Errorf("read upload: %w", err), http.StatusBadRequest, back)
		return
	}
	if int64(len(data)) > maxSize {
		s.respondError(w, r, failed, core.ErrFileTooLarge, http.StatusRequestEntityTooLarge, back)
		return
	}

	logger := logging.WithFields(r.Context(), "file", header.Filename, "bytes", len(data))
	logger.Debug("csv import started")

	result, err := s.service.ImportLoads(r.Context(), string(data))
	if err != nil {
		s.respondError(w, r, failed, err, statusFor(err), back)
		return
	}

	desc := fmt.Sprintf("%d loads imported from CSV file.", result.Imported)
	if result.Skipped > 0 {
		desc += fmt.Sprintf(" %d rows skipped.", result.Skipped)
	}
	s.respondSuccess(w, r, "CSV Imported Successfully!", desc, http.StatusOK, back, result)
}

// handleExportLoads downloads the currently filtered loads as CSV.
func (s *Server) handleExportLoads(w http.ResponseWriter, r *http.Request) {
	text, n := s.service.ExportLoads(r.Context(), FilterCriteriaFromQuery(r.URL.Query()))

	s.notices.Success("CSV Exported Successfully!", notify.Options{
		Description: fmt.Sprintf("%d loads exported to CSV file.", n),
	})

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+core.ExportFileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(text)))
	if _, err := io.WriteString(w, text); err != nil {
		logging.FromContext(r.Context()).Warn("export write failed", "error", err)
	}
}
