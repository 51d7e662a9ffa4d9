package server

import (
	"net/http"
	"sort"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
)

// mountDocs serves a machine-readable schema and a small browsable page
// for it. The document is assembled from the registered route table, not
// written by hand.
func (s *Server) mountDocs() {
	s.engine.GET("/v1/openapi.json", s.handleOpenAPI)
	s.engine.GET("/docs", s.handleDocsPage)
}

func (s *Server) handleOpenAPI(c *gin.Context) {
	s.docOnce.Do(func() {
		s.doc = buildOpenAPI(s.engine.Routes())
	})
	c.JSON(http.StatusOK, s.doc)
}

func (s *Server) handleDocsPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(docsPage))
}

// buildOpenAPI converts gin's route table into an OpenAPI 3 document.
func buildOpenAPI(routes gin.RoutesInfo) gin.H {
	paths := gin.H{}

	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})

	for _, r := range routes {
		path := openAPIPath(r.Path)
		operations, ok := paths[path].(gin.H)
		if !ok {
			operations = gin.H{}
			paths[path] = operations
		}

		op := gin.H{
			"summary": summaryFromHandler(r.Handler),
			"responses": gin.H{
				"default": gin.H{"description": "JSON response"},
			},
		}
		if strings.HasPrefix(r.Path, "/v1/") && r.Path != "/v1/openapi.json" {
			op["security"] = []gin.H{{"bearerAuth": []string{}}}
		}
		operations[strings.ToLower(r.Method)] = op
	}

	return gin.H{
		"openapi": "3.0.3",
		"info": gin.H{
			"title":   "Planner API",
			"version": "1.0.0",
		},
		"paths": paths,
		"components": gin.H{
			"securitySchemes": gin.H{
				"bearerAuth": gin.H{
					"type":         "http",
					"scheme":       "bearer",
					"bearerFormat": "JWT",
				},
			},
		},
	}
}

// openAPIPath rewrites gin parameters (:id) as OpenAPI placeholders ({id}).
func openAPIPath(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if strings.HasPrefix(p, ":") {
			parts[i] = "{" + p[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
}

// summaryFromHandler turns a handler symbol like
// "planner/internal/server.(*Server).handleListTodos-fm" into
// "List todos".
func summaryFromHandler(handler string) string {
	name := handler
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "-fm")
	name = strings.TrimPrefix(name, "handle")

	var words []string
	start := 0
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, name[start:i])
			start = i
		}
	}
	if start < len(name) {
		words = append(words, name[start:])
	}
	if len(words) == 0 {
		return name
	}
	for i, w := range words {
		if i == 0 {
			continue
		}
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, " ")
}

const docsPage = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Planner API</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; }
code { background: #f0f0f0; padding: 0.1rem 0.3rem; }
li { margin: 0.4rem 0; }
.method { display: inline-block; width: 4.5rem; font-weight: bold; }
</style>
</head>
<body>
<h1>Planner API</h1>
<p>Generated from the live route table. Raw schema:
<a href="/v1/openapi.json">/v1/openapi.json</a></p>
<ul id="routes"></ul>
<script>
fetch('/v1/openapi.json').then(r => r.json()).then(doc => {
  const ul = document.getElementById('routes');
  for (const [path, ops] of Object.entries(doc.paths)) {
    for (const [method, op] of Object.entries(ops)) {
      const li = document.createElement('li');
      li.innerHTML = '<span class="method">' + method.toUpperCase() +
        '</span> <code>' + path + '</code> ' + (op.summary || '');
      ul.appendChild(li);
    }
  }
});
</script>
</body>
</html>
`
