package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/qrave1/MemStudy/internal/application/metric"
)

// PrometheusMiddleware собирает метрики HTTP запросов
func PrometheusMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			statusCode := c.Response().Status
			if statusCode == 0 {
				statusCode = http.StatusOK
			}

			var httpErr *echo.HTTPError
			if err != nil && statusCode < http.StatusBadRequest {
				statusCode = http.StatusInternalServerError

				if errors.As(err, &httpErr) {
					statusCode = httpErr.Code
				}
			}

			// c.Path() - шаблон маршрута, а не сырой URI
			metric.RecordHTTPMetrics(c.Request().Method, c.Path(), statusCode, time.Since(start))

			return err
		}
	}
}
