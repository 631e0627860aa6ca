package league

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed data/*.json
var rosterFS embed.FS

// loadRoster reads an embedded roster file. Rosters ship with the binary;
// a missing or malformed file is a build defect, so this panics at init.
func loadRoster(filename string) []Team {
	raw, err := rosterFS.ReadFile("data/" + filename)
	if err != nil {
		panic(fmt.Sprintf("league: missing roster %s: %v", filename, err))
	}
	var teams []Team
	if err := json.Unmarshal(raw, &teams); err != nil {
		panic(fmt.Sprintf("league: bad roster %s: %v", filename, err))
	}
	return teams
}
