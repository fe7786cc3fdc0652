// sitemock serves a minimal stand-in for the booking site: a home page
// carrying the header markers the page objects look for, plus a session
// endpoint shaped like the real backend. Useful for trying the suite
// without touching the QA environments.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"time"
)

const homeHTML = `<!doctype html>
<html lang="es">
<head><meta charset="utf-8"><title>sitemock</title></head>
<body>
<header>
  <button class="dropdown_trigger">Español</button>
  <button class="main-header_nav-primary_item_link"><span class="button_label">Ofertas y destinos</span></button>
  <div id="pointOfSaleSelectorId"><span class="points-of-sale_list_item_label">Chile</span></div>
  <a href="/es/ofertas-destinos/ofertas-de-vuelos/">Ofertas de vuelos</a>
  <a href="/es/informacion-y-ayuda/equipaje/">Equipaje</a>
</header>
<footer>
  <a href="/es/ofertas-destinos/reserva-de-vuelos/">Vuelos</a>
  <a href="https://jobs.avianca.com/trabajos">Trabaja con nosotros</a>
</footer>
</body>
</html>`

func main() {
	addr := flag.String("addr", ":8081", "Listen address")
	flag.Parse()

	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(homeHTML))
	})

	mux.HandleFunc("/api/session", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		now := time.Now().UTC()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"sessionId": "mock-session-1",
			"journeys": []map[string]any{
				{
					"openingCheckInDate": now.Add(24 * time.Hour).Format(time.RFC3339),
					"closingCheckInDate": now.Add(47 * time.Hour).Format(time.RFC3339),
					"fares": []map[string]any{
						{"paxCode": "ADT", "id": "fare-1", "productClass": "Basic"},
					},
					"segments": []map[string]any{
						{"etd": now.Add(48 * time.Hour).Format(time.RFC3339), "status": "Confirmed", "std": now.Add(48 * time.Hour).Format(time.RFC3339)},
					},
				},
			},
		})
	})

	log.Printf("sitemock listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, mux))
}
