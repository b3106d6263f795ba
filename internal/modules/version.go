package modules

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/blacktop/bytebun/internal/analysis"
	"github.com/blacktop/bytebun/pkg/classfile"
)

const (
	// FlatteningDataVersion is the last data version before the block flattening (17w46a)
	FlatteningDataVersion = 1449

	entityFormat113DataVersion = 1461 // 18w02a
	entityFormat111DataVersion = 800  // 16w32a
)

// versionJSON is the version.json resource shipped since 18w47b
type versionJSON struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	WorldVersion    int    `json:"world_version"`
	ProtocolVersion int    `json:"protocol_version"`
}

// VersionModule provides the protocol and data versions of the artifact.
type VersionModule struct{}

func (m *VersionModule) Name() string { return "version" }

func (m *VersionModule) Description() string {
	return "Provides the protocol version"
}

func (m *VersionModule) Provides() []string {
	return []string{
		"version.protocol",
		"version.id",
		"version.name",
		"version.data",
		"version.is_flattened",
		"version.entity_format",
	}
}

func (m *VersionModule) Depends() []string {
	return []string{
		"identify.nethandler.server",
		"identify.anvilchunkloader",
	}
}

func (m *VersionModule) Act(facts *analysis.Facts, repo analysis.Repository, verbose bool) error {
	logger := verboseLog(verbose)
	version := facts.Ensure("version")

	if vj, err := readVersionJSON(repo); err == nil {
		version["data"] = vj.WorldVersion
		version["protocol"] = vj.ProtocolVersion
		version["name"] = vj.Name
		// "id" became the download id in 1.14.3-pre1; before that it looked like "1.14.2 / f647ba8dc371474797bee24b2b312ff4"
		if len(vj.ID) <= len(vj.Name) {
			logger.Infof("Using id '%s' over name '%s' for id as it is shorter", vj.ID, vj.Name)
			version["id"] = vj.ID
		} else {
			logger.Infof("Using name '%s' over id '%s' for id as it is shorter", vj.Name, vj.ID)
			version["id"] = vj.Name
		}
	} else {
		if err := protocolVersion(facts, repo, version, verbose); err != nil {
			return err
		}
		if err := dataVersion(facts, repo, version, verbose); err != nil {
			return err
		}
	}

	data, ok := version["data"].(int)
	if !ok {
		version["is_flattened"] = false
		version["entity_format"] = "1.10"
		return nil
	}
	version["is_flattened"] = data > FlatteningDataVersion
	switch {
	case data >= entityFormat113DataVersion:
		version["entity_format"] = "1.13"
	case data >= entityFormat111DataVersion:
		version["entity_format"] = "1.11"
	default:
		version["entity_format"] = "1.10"
	}
	return nil
}

func readVersionJSON(repo analysis.Repository) (*versionJSON, error) {
	f, err := repo.Open("version.json")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var vj versionJSON
	if err := json.NewDecoder(f).Decode(&vj); err != nil {
		return nil, err
	}
	return &vj, nil
}

// protocolVersion finds the protocol number next to the "outdated" disconnect message of the server handshake handler
func protocolVersion(facts *analysis.Facts, repo analysis.Repository, version map[string]any, verbose bool) error {
	name, ok := facts.String("classes", "nethandler.server")
	if !ok {
		verboseLog(verbose).Warn("Unable to determine protocol version")
		return nil
	}
	cf, err := load("version", repo, name)
	if err != nil {
		return err
	}

	var protocol *int
	lookingForName := false
	for _, method := range cf.Methods {
		code, err := method.Code()
		if err != nil {
			return analysis.Failf("version", "failed to read %s.%s: %v", name, method.Name, err)
		}
		if code == nil {
			continue
		}
		instructions, err := method.Instructions()
		if err != nil {
			return analysis.Failf("version", "failed to disassemble %s.%s: %v", name, method.Name, err)
		}
		for _, ins := range instructions {
			switch {
			case ins.Is("bipush", "sipush"):
				v, _ := ins.Literal()
				n := int(v)
				protocol = &n
			case ins.Is("ldc", "ldc_w"):
				c, _ := ins.Const()
				str, ok := c.(*classfile.String)
				if !ok {
					continue
				}
				switch {
				case strings.Contains(str.Value, "multiplayer.disconnect.outdated_client"):
					version["protocol"] = derefOr(protocol, nil)
					lookingForName = true
				case lookingForName:
					version["name"] = str.Value
					version["id"] = str.Value
					return nil
				case strings.Contains(str.Value, "Outdated server!"):
					// 13w41a and 13w41b (protocol 0) never set the variable
					version["protocol"] = derefOr(protocol, 0)
					name := strings.TrimPrefix(str.Value, "Outdated server! I'm still on ")
					version["name"] = name
					version["id"] = name
					return nil
				}
			}
		}
	}
	return nil
}

func derefOr(p *int, def any) any {
	if p == nil {
		return def
	}
	return *p
}

// dataVersion finds the constant stored under "DataVersion" by the chunk loader
func dataVersion(facts *analysis.Facts, repo analysis.Repository, version map[string]any, verbose bool) error {
	name, ok := facts.String("classes", "anvilchunkloader")
	if !ok {
		verboseLog(verbose).Warn("Unable to determine data version")
		return nil
	}
	cf, err := load("version", repo, name)
	if err != nil {
		return err
	}

	for _, method := range cf.Methods {
		code, err := method.Code()
		if err != nil || code == nil {
			continue
		}
		instructions, err := method.Instructions()
		if err != nil {
			return analysis.Failf("version", "failed to disassemble %s.%s: %v", name, method.Name, err)
		}
		// since 18w21a one method reads DataVersion and one writes it; the reader mentions hasLegacyStructureData
		if slices.ContainsFunc(instructions, isLdcString("hasLegacyStructureData")) {
			continue
		}
		if v, ok := dataVersionIn(instructions); ok {
			version["data"] = v
			return nil
		}
	}
	return nil
}

func isLdcString(s string) func(classfile.Instruction) bool {
	return func(ins classfile.Instruction) bool {
		if !ins.Is("ldc", "ldc_w") {
			return false
		}
		c, _ := ins.Const()
		str, ok := c.(*classfile.String)
		return ok && str.Value == s
	}
}

func dataVersionIn(instructions []classfile.Instruction) (int, bool) {
	next := false
	for _, ins := range instructions {
		switch {
		case ins.Is("ldc", "ldc_w"):
			c, _ := ins.Const()
			switch c := c.(type) {
			case *classfile.String:
				if c.Value == "DataVersion" {
					next = true
				}
			case classfile.Integer:
				if next {
					return int(c.Value), true
				}
				return 0, false
			}
		case next && ins.Is("bipush", "sipush"):
			v, _ := ins.Literal()
			return int(v), true
		}
	}
	return 0, false
}
