package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// binder copies path parameters into a decoded input.
type binder[In any] func(c *gin.Context, in *In)

func bindID[In any](set func(in *In, id string)) binder[In] {
	return func(c *gin.Context, in *In) {
		set(in, c.Param("id"))
	}
}

// jsonEndpoint decodes a JSON body, applies bind and writes the operation result.
func jsonEndpoint[In, Out any](rsp *Responder, status int, op func(context.Context, In) (Out, error), bind binder[In]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in In
		if err := c.ShouldBindJSON(&in); err != nil {
			rsp.BadRequest(c, "", "request body is not valid JSON")
			return
		}
		if bind != nil {
			bind(c, &in)
		}

		out, err := op(c.Request.Context(), in)
		if err != nil {
			rsp.Error(c, err)
			return
		}
		c.JSON(status, out)
	}
}

// listEndpoint decodes query parameters and wraps the result in a ListResponse.
func listEndpoint[In, T any](rsp *Responder, op func(context.Context, In) ([]T, error), bind binder[In]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in In
		if err := c.ShouldBindQuery(&in); err != nil {
			rsp.BadRequest(c, "", "query parameters are not valid")
			return
		}
		if bind != nil {
			bind(c, &in)
		}

		items, err := op(c.Request.Context(), in)
		if err != nil {
			rsp.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, newListResponse(items))
	}
}

// idEndpoint runs an operation keyed by the :id path parameter.
func idEndpoint[Out any](rsp *Responder, op func(context.Context, string) (Out, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := op(c.Request.Context(), c.Param("id"))
		if err != nil {
			rsp.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// deleteEndpoint runs a delete keyed by the :id path parameter and answers 204.
func deleteEndpoint(rsp *Responder, op func(context.Context, string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := op(c.Request.Context(), c.Param("id")); err != nil {
			rsp.Error(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// queryEndpoint decodes query parameters and writes the operation result as is.
func queryEndpoint[In, Out any](rsp *Responder, op func(context.Context, In) (Out, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in In
		if err := c.ShouldBindQuery(&in); err != nil {
			rsp.BadRequest(c, "", "query parameters are not valid")
			return
		}

		out, err := op(c.Request.Context(), in)
		if err != nil {
			rsp.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
