package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# TiDES target & classification service

Mirrors TiDES candidates into follow-up targets, attaches observed spectra
and machine classifications, and collects human classifications.

## Auth

When auth is enabled, write routes require a Bearer token carrying a
submitter id (mint one with ` + "`tidestom token --submitter N`" + `).
Read routes and infra endpoints are public.

## Routes

- GET /healthz
- GET /readyz
- GET /metrics
- GET /swagger/index.html
- GET /api/targets
- GET /api/targets/{id}
- GET /api/targets/{id}/spectrum
- GET /api/targets/{id}/classification-form
- POST /api/targets/{id}/classifications
- GET /api/spectra/latest?days_range=30&page=1
- GET /api/classifications/main
- GET /api/classifications/subclasses?main_class=SNIa
- POST /api/sync/candidates
- GET /api/sync/state

## Submissions

POST /api/targets/{id}/classifications always answers 303 See Other to
/api/targets/{id}. The outcome is returned once in the ` + "`flashes`" + `
field of the next detail response, so clients must keep the session cookie.
`)
	})
}
