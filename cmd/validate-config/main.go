// Command validate-config loads the configuration the server would start with
// and prints it with secrets masked. It exits non-zero if loading fails.
package main

import (
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/diewo77/medicine-recommendation/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	out, err := json.MarshalIndent(cfg.Masked(), "", "  ")
	if err != nil {
		log.Fatalf("encode configuration: %v", err)
	}
	fmt.Println(string(out))
}
