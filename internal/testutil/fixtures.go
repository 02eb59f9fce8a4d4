package testutil

import (
	"embed"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/config"
)

//go:embed fixtures
var fixturesFS embed.FS

// LoadFixture loads a fixture file by name.
func LoadFixture(name string) ([]byte, error) {
	return fixturesFS.ReadFile("fixtures/" + name)
}

// Dockerfile returns the fixture Dockerfile.
func Dockerfile() []byte {
	data, err := LoadFixture("Dockerfile")
	if err != nil {
		panic(err)
	}
	return data
}

// RepoConfig returns the fixture repository override file.
func RepoConfig() []byte {
	data, err := LoadFixture("forage-wt.toml")
	if err != nil {
		panic(err)
	}
	return data
}

// RepoConfigPath is where RepoConfig is written inside a repository.
const RepoConfigPath = config.RepoFileName
