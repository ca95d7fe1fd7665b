package httpresp

import "github.com/gin-gonic/gin"

// ListResponse envuelve listados con su total; el panel pagina del
// lado del cliente y solo necesita el conteo.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

func OK(c *gin.Context, data any) {
	c.JSON(200, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(201, data)
}

// List nunca serializa null: una lista vacía sale como [].
func List[T any](c *gin.Context, data []T) {
	if data == nil {
		data = []T{}
	}
	c.JSON(200, ListResponse[T]{
		Data:  data,
		Total: len(data),
	})
}
