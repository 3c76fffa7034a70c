// cmd/api/main.go
package main

import (
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
)

// services maps each gateway prefix to the env var naming its backend and the
// default address used in local development.
var services = []struct {
	prefix     string
	envVar     string
	defaultURL string
}{
	{"/api/v1/catalog", "CATALOG_SERVICE_URL", "http://localhost:8081"},
	{"/api/v1/configurator", "CONFIGURATOR_SERVICE_URL", "http://localhost:8082"},
	{"/api/v1/auth", "AUTH_SERVICE_URL", "http://localhost:8083"},
}

func main() {
	for _, svc := range services {
		target, err := url.Parse(getEnv(svc.envVar, svc.defaultURL))
		if err != nil {
			log.Fatalf("Invalid URL for %s: %v", svc.envVar, err)
		}
		proxy := httputil.NewSingleHostReverseProxy(target)
		http.Handle(svc.prefix+"/", http.StripPrefix(svc.prefix, proxy))
	}

	port := getEnv("PORT", "8080")
	log.Printf("API Gateway listening on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, nil))
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
