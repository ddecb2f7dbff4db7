package api

import (
	"net/http"
	"strconv"
	"strings"

	"tagz/internal/entity/converter"
	"tagz/internal/entity/dto"

	"github.com/gin-gonic/gin"
)

// ListTags 分页列出标签名，按名称排序
func (h *HTTPHandler) ListTags(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var params dto.PageParams
	if err := c.ShouldBindQuery(&params); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	pageSize := params.SizeOr(h.catalog.Pagination().TagsPerPage)

	ctx, cancel := h.requestContext(c)
	defer cancel()

	tags, total, err := h.catalog.ListTags(ctx, pageSize, params.Page)
	if err != nil {
		ServiceError(c, err, ErrCodeNotFound, "failed to load tags")
		return
	}

	c.JSON(http.StatusOK, dto.TagListResponse{
		Tags: converter.TagNames(tags),
		Meta: &dto.Meta{Page: params.Page, PageSize: pageSize, Total: total},
	})
}

func (h *HTTPHandler) CreateTag(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req dto.CreateTagRequest
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

	tag, err := h.catalog.CreateTag(ctx, name)
	if err != nil {
		ServiceError(c, err, ErrCodeTagNotFound, "failed to create tag")
		return
	}

	c.JSON(http.StatusCreated, dto.TagDetailResponse{Tag: converter.TagToDTO(tag)})
}

// DeleteTag 删除标签。标签仍关联文件时需要 ?confirm=true。
func (h *HTTPHandler) DeleteTag(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	name := strings.TrimSpace(c.Param("tag"))
	if name == "" {
		MissingField(c, "tag")
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.catalog.DeleteTag(ctx, name, parseBoolParam(c.Query("confirm"))); err != nil {
		ServiceError(c, err, ErrCodeTagNotFound, "failed to delete tag")
		return
	}

	c.Status(http.StatusNoContent)
}

func parseBoolParam(value string) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && parsed
}
