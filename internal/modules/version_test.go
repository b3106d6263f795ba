package modules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blacktop/bytebun/internal/analysis"
	"github.com/blacktop/bytebun/internal/modules"
	"github.com/blacktop/bytebun/pkg/classfile"
	"github.com/blacktop/bytebun/pkg/classfile/classtest"
)

func TestVersionFromJSON(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		wantID   string
		wantData int
		format   string
		flat     bool
	}{
		{
			name:     "id shorter than name",
			json:     `{"id":"1.14.4","name":"1.14.4","world_version":1976,"protocol_version":498}`,
			wantID:   "1.14.4",
			wantData: 1976,
			format:   "1.13",
			flat:     true,
		},
		{
			name:     "name shorter than id",
			json:     `{"id":"1.14.2 / f647ba8dc371474797bee24b2b312ff4","name":"1.14.2","world_version":1963,"protocol_version":485}`,
			wantID:   "1.14.2",
			wantData: 1963,
			format:   "1.13",
			flat:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newRepo(t, nil, map[string][]byte{"version.json": []byte(tt.json)})
			facts := analysis.NewFacts()
			require.NoError(t, act(t, &modules.VersionModule{}, facts, repo))

			id, _ := facts.String("version", "id")
			assert.Equal(t, tt.wantID, id)
			data, _ := facts.Int("version", "data")
			assert.Equal(t, tt.wantData, data)
			format, _ := facts.String("version", "entity_format")
			assert.Equal(t, tt.format, format)
			flat, _ := facts.Lookup("version", "is_flattened")
			assert.Equal(t, tt.flat, flat)
		})
	}
}

func nethandler() *classtest.Builder {
	b := plain("sv", "java/lang/Object")
	outdated := b.String("multiplayer.disconnect.outdated_client")
	name := b.String("1.12.2")
	code := asm().
		U2(classfile.OpSipush, 340).
		Op(classfile.OpIstore1).
		Ldc(outdated).
		Op(classfile.OpPop).
		Ldc(name).
		Op(classfile.OpPop, classfile.OpReturn).
		Bytes()
	return b.Method(public, "a", "()V", code)
}

func chunkLoader() *classtest.Builder {
	b := plain("ayu", "java/lang/Object")
	legacy := b.String("hasLegacyStructureData")
	dataVersion := b.String("DataVersion")
	reader := asm().
		Ldc(legacy).
		Op(classfile.OpPop).
		Ldc(dataVersion).
		U2(classfile.OpSipush, 1).
		Op(classfile.OpPop2, classfile.OpReturn).
		Bytes()
	writer := asm().
		Ldc(dataVersion).
		U2(classfile.OpSipush, 1343).
		Op(classfile.OpPop2, classfile.OpReturn).
		Bytes()
	return b.
		Method(public, "a", "()V", reader).
		Method(public, "b", "()V", writer)
}

func TestVersionFromBytecode(t *testing.T) {
	repo := newRepo(t, map[string]*classtest.Builder{
		"sv":  nethandler(),
		"ayu": chunkLoader(),
	}, nil)

	facts := analysis.NewFacts()
	facts.Ensure("classes")["nethandler.server"] = "sv"
	facts.Ensure("classes")["anvilchunkloader"] = "ayu"
	require.NoError(t, act(t, &modules.VersionModule{}, facts, repo))

	version, ok := facts.Map("version")
	require.True(t, ok)
	assert.Equal(t, 340, version["protocol"])
	assert.Equal(t, "1.12.2", version["name"])
	assert.Equal(t, "1.12.2", version["id"])
	assert.Equal(t, 1343, version["data"])
	assert.Equal(t, false, version["is_flattened"])
	assert.Equal(t, "1.11", version["entity_format"])
}

func TestVersionOutdatedServer(t *testing.T) {
	b := plain("ni", "java/lang/Object")
	msg := b.String("Outdated server! I'm still on 13w41a")
	b.Method(public, "a", "()V", asm().Ldc(msg).Op(classfile.OpPop, classfile.OpReturn).Bytes())
	repo := newRepo(t, map[string]*classtest.Builder{"ni": b}, nil)

	facts := analysis.NewFacts()
	facts.Ensure("classes")["nethandler.server"] = "ni"
	require.NoError(t, act(t, &modules.VersionModule{}, facts, repo))

	version, _ := facts.Map("version")
	assert.Equal(t, 0, version["protocol"])
	assert.Equal(t, "13w41a", version["name"])
	assert.NotContains(t, version, "data")
	assert.Equal(t, false, version["is_flattened"])
	assert.Equal(t, "1.10", version["entity_format"])
}
