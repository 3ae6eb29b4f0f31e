package handler

import (
	"errors"
	"fmt"

	"notevault/dto"
	"notevault/middleware"
	"notevault/usecase"
	"notevault/utils"

	"github.com/gin-gonic/gin"
)

// UploadCSV bulk-creates notes from a multipart csv_file with title and
// body header columns. Any bad row rejects the whole file; a failed
// import creates zero notes.
func (h *NoteHandler) UploadCSV(c *gin.Context) {
	username := c.GetString(middleware.UsernameKey)

	fileHeader, err := c.FormFile("csv_file")
	if err != nil {
		utils.BadRequest(c, "csv_file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequest(c, "failed to read uploaded file")
		return
	}
	defer file.Close()

	count, err := h.Notes.ImportCSV(c.Request.Context(), username, file)
	if err != nil {
		if errors.Is(err, usecase.ErrMalformedImport) {
			// 401 on malformed rows is the documented contract for
			// this endpoint.
			utils.Unauthorized(c, "CSV seems messed up!")
			return
		}
		utils.InternalError(c, "failed to import notes")
		return
	}

	plural := ""
	if count > 1 {
		plural = "s"
	}
	utils.Created(c, dto.UploadResponse{
		Result: fmt.Sprintf("%d note%s uploaded and created successfully!", count, plural),
	})
}
