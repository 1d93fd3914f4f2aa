package api

import (
	"bytes"
	"fmt"
	"html"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tabscout/adapters/excel"
	"tabscout/domain/profile"
	"tabscout/internal/dataset"
	apperrors "tabscout/internal/errors"
	"tabscout/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleUpload profiles a multipart upload in field "file"
func (s *Server) handleUpload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		s.writeError(c, apperrors.InvalidInput("no file uploaded in form field \"file\""))
		return
	}
	defer file.Close()

	s.processUpload(c, &dataset.Upload{FileName: header.Filename, Content: file, Size: header.Size})
}

// handleRawUpload profiles the request body; the file name comes from ?fileName=
func (s *Server) handleRawUpload(c *gin.Context) {
	fileName := strings.TrimSpace(c.Query("fileName"))
	if fileName == "" {
		s.writeError(c, apperrors.InvalidInput("fileName query parameter is required"))
		return
	}

	size := c.Request.ContentLength
	if size < 0 {
		size = 0
	}
	s.processUpload(c, &dataset.Upload{FileName: fileName, Content: c.Request.Body, Size: size})
}

func (s *Server) processUpload(c *gin.Context, upload *dataset.Upload) {
	record, err := s.service.ProcessUpload(c.Request.Context(), upload)
	if err != nil {
		s.events.Broadcast(ProfileEvent{
			EventType: EventProfileFailed,
			FileName:  upload.FileName,
			Code:      apperrors.GetCode(err),
			Message:   err.Error(),
		})
		s.writeError(c, err)
		return
	}

	s.events.Broadcast(ProfileEvent{EventType: EventProfileCreated, ProfileID: record.ID.String(), FileName: upload.FileName})
	c.JSON(http.StatusCreated, record)
}

func (s *Server) handleList(c *gin.Context) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		s.writeError(c, err)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		s.writeError(c, err)
		return
	}

	records, err := s.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if records == nil {
		records = []*profile.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"profiles": records, "count": len(records)})
}

func (s *Server) handleGet(c *gin.Context) {
	record, ok := s.loadRecord(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) handlePreviewCSV(c *gin.Context) {
	record, ok := s.loadRecord(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", attachment(record, ".csv"))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(dataset.ExportPreviewCSV(&record.Profile)))
}

func (s *Server) handlePreviewXLSX(c *gin.Context) {
	record, ok := s.loadRecord(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := excel.WritePreview(&buf, &record.Profile); err != nil {
		s.writeError(c, apperrors.Wrap(err, "failed to write preview workbook"))
		return
	}
	c.Header("Content-Disposition", attachment(record, ".xlsx"))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (s *Server) handleSummary(c *gin.Context) {
	record, ok := s.loadRecord(c)
	if !ok {
		return
	}

	title := html.EscapeString(record.Profile.FileName)
	page := fmt.Sprintf("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n%s</body>\n</html>\n",
		title, report.HTML(&record.Profile))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// handleRaw streams the kept original upload
func (s *Server) handleRaw(c *gin.Context) {
	record, rc, err := s.service.OpenRaw(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, -1, "application/octet-stream", rc, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s%s"`, fileStem(record), headerUnsafe.Replace(filepath.Ext(record.Profile.FileName))),
	})
}

func (s *Server) handleDelete(c *gin.Context) {
	id := c.Param("id")
	if err := s.service.Delete(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}
	s.events.Broadcast(ProfileEvent{EventType: EventProfileDeleted, ProfileID: id})
	c.Status(http.StatusNoContent)
}

func (s *Server) loadRecord(c *gin.Context) (*profile.Record, bool) {
	record, err := s.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return nil, false
	}
	return record, true
}

func queryInt(c *gin.Context, key string, defaultValue int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.InvalidInput(fmt.Sprintf("%s must be an integer, got %q", key, raw))
	}
	return v, nil
}

// attachment names the download after the source file
func attachment(record *profile.Record, ext string) string {
	return fmt.Sprintf(`attachment; filename="%s_preview%s"`, fileStem(record), ext)
}

// fileStem is the upload's base name without extension, safe for a header.
func fileStem(record *profile.Record) string {
	base := filepath.Base(record.Profile.FileName)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." {
		stem = record.ID.String()
	}
	return headerUnsafe.Replace(stem)
}

var headerUnsafe = strings.NewReplacer(`"`, "", "\\", "", "\n", "", "\r", "")
