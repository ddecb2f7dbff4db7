package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"tagz/internal/entity/converter"
	"tagz/internal/entity/dto"
	"tagz/internal/errs"
	"tagz/internal/service"

	"github.com/gin-gonic/gin"
)

// ListFiles 按标签列出文件；未给出 tags 参数时列出全部文件。
// tags may repeat and each value may hold a comma separated list.
func (h *HTTPHandler) ListFiles(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var query dto.FileQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	pagination := h.catalog.Pagination()

	rawTags, filtered := c.GetQueryArray("tags")
	if !filtered {
		pageSize := query.SizeOr(pagination.FilesPerPage)
		files, total, err := h.catalog.ListFiles(ctx, pageSize, query.Page)
		if err != nil {
			ServiceError(c, err, ErrCodeNotFound, "failed to list files")
			return
		}
		c.JSON(http.StatusOK, dto.FileListResponse{
			Files: converter.FilesToDTOs(files),
			Meta:  &dto.Meta{Page: query.Page, PageSize: pageSize, Total: total},
		})
		return
	}

	pageSize := query.SizeOr(pagination.FilesByTagPerPage)
	files, err := h.catalog.ListByTags(ctx, service.SplitNames(rawTags...), pageSize, query.Page, query.Exact)
	if err != nil {
		ServiceError(c, err, ErrCodeTagsNotFound, "failed to list files by tags")
		return
	}

	c.JSON(http.StatusOK, dto.FileListResponse{
		Files: converter.FilesToDTOs(files),
		Meta:  &dto.Meta{Page: query.Page, PageSize: pageSize},
	})
}

func (h *HTTPHandler) GetFile(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	name := strings.TrimSpace(c.Param("file"))
	if name == "" {
		MissingField(c, "file")
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	file, err := h.catalog.GetFile(ctx, name)
	if err != nil {
		ServiceError(c, err, ErrCodeFileNotFound, "failed to load file")
		return
	}

	c.JSON(http.StatusOK, dto.FileDetailResponse{File: converter.FileToDTO(file)})
}

// CreateFile 创建文件并一次性关联初始标签
func (h *HTTPHandler) CreateFile(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req dto.CreateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		MissingField(c, "name")
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	file, err := h.catalog.CreateFile(ctx, name, req.Tags)
	if err != nil {
		ServiceError(c, err, ErrCodeTagNotFound, "failed to create file")
		return
	}

	c.JSON(http.StatusCreated, dto.FileDetailResponse{File: converter.FileToDTO(file)})
}

func (h *HTTPHandler) DeleteFile(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	name := strings.TrimSpace(c.Param("file"))
	if name == "" {
		MissingField(c, "file")
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.catalog.DeleteFile(ctx, name); err != nil {
		ServiceError(c, err, ErrCodeFileNotFound, "failed to delete file")
		return
	}

	c.Status(http.StatusNoContent)
}

// AttachTag 为文件添加标签，:file 为文件 ID
func (h *HTTPHandler) AttachTag(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	fileID, ok := parseFileID(c)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.catalog.AttachTag(ctx, fileID, c.Param("tag")); err != nil {
		ServiceError(c, err, ErrCodeNotFound, "failed to attach tag")
		return
	}

	c.Status(http.StatusNoContent)
}

// DetachTag 移除文件上的标签，:file 为文件 ID
func (h *HTTPHandler) DetachTag(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	fileID, ok := parseFileID(c)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.catalog.DetachTag(ctx, fileID, c.Param("tag")); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			NotFound(c, ErrCodeRelationshipNotFound, err.Error())
			return
		}
		ServiceError(c, err, ErrCodeTagNotFound, "failed to detach tag")
		return
	}

	c.Status(http.StatusNoContent)
}

func parseFileID(c *gin.Context) (uint, bool) {
	rawID := strings.TrimSpace(c.Param("file"))
	id, err := strconv.ParseUint(rawID, 10, strconv.IntSize)
	if err != nil || id == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "invalid file id")
		return 0, false
	}
	return uint(id), true
}
