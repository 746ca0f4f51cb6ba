package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Serves canned publisher responses generated by cmd/export-mirror, so
// the service can be developed offline. Point every publisher's
// base_url at http://localhost:9000/<key> via a publishers YAML file.
func main() {
	dataDir := "data/mirror"
	if len(os.Args) > 1 {
		dataDir = os.Args[1]
	}

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		file, raw := fixtureFor(r)
		if file == "" {
			http.NotFound(w, r)
			return
		}

		b, err := os.ReadFile(filepath.Join(dataDir, file))
		if err != nil {
			http.Error(w, "cannot read fixture "+file+": "+err.Error(), http.StatusNotFound)
			return
		}

		// validate JSON so a bad fixture doesn't silently break clients
		if !raw {
			var tmp any
			if err := json.Unmarshal(b, &tmp); err != nil {
				http.Error(w, "fixture "+file+" invalid JSON: "+err.Error(), http.StatusInternalServerError)
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(b)
	})

	log.Println("mirror-server listening on http://localhost:9000")
	log.Fatal(http.ListenAndServe(":9000", nil))
}

// fixtureFor maps publisher-shaped request paths onto fixture files.
// The first path segment is the publisher key; the remainder mirrors
// the real endpoint layout.
func fixtureFor(r *http.Request) (file string, raw bool) {
	parts := strings.SplitN(strings.Trim(r.URL.Path, "/"), "/", 2)
	if len(parts) != 2 {
		return "", false
	}
	pub, endpoint := parts[0], parts[1]

	switch endpoint {
	case "Home/GetMaxdateJson":
		// quoted string literal, not a JSON document
		return filepath.Join(pub, "maxdate.json"), true
	case "Login/GetMaxDate":
		return filepath.Join(pub, "maxdate.json"), false
	case "Home/GetEditionsHierarchy":
		return filepath.Join(pub, "hierarchy.json"), false
	case "Login/GetMailEditionPages":
		return filepath.Join(pub, "mail-editions.json"), false
	case "Login/GetDistrictEditionPages":
		return filepath.Join(pub, "district-editions.json"), false
	case "Home/GetAllpages":
		id, err := strconv.Atoi(r.URL.Query().Get("editionid"))
		if err != nil {
			return "", false
		}
		return filepath.Join(pub, "pages-"+strconv.Itoa(id)+".json"), false
	}
	return "", false
}
