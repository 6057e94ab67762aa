package input

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/decide-lab/launch-interceptor/internal/decide"
	"github.com/decide-lab/launch-interceptor/internal/geometry"
	"github.com/decide-lab/launch-interceptor/internal/lcm"
)

// #region helpers
// lcmRows renders a 15x15 YAML flow matrix with every cell set to cell.
func lcmRows(cell string) string {
	row := "[" + strings.TrimSuffix(strings.Repeat(cell+", ", 15), ", ") + "]"
	var sb strings.Builder
	for i := 0; i < 15; i++ {
		sb.WriteString("  - " + row + "\n")
	}
	return sb.String()
}

func puvRow(v string) string {
	return "[" + strings.TrimSuffix(strings.Repeat(v+", ", 15), ", ") + "]"
}

func yamlDoc(points string) string {
	return "points:\n" + points +
		"parameters:\n" +
		"  length1: 1\n  radius1: 1\n  epsilon: 0.5\n  area1: 1\n" +
		"  q_pts: 2\n  quads: 1\n  dist: 1\n  n_pts: 3\n" +
		"  k_pts: 1\n  a_pts: 1\n  b_pts: 1\n  c_pts: 1\n  d_pts: 1\n" +
		"  e_pts: 1\n  f_pts: 1\n  g_pts: 1\n" +
		"  length2: 1\n  radius2: 1\n  area2: 1\n" +
		"lcm:\n" + lcmRows("ORR") +
		"puv: " + puvRow("true") + "\n"
}

// #endregion helpers

// #region decode-tests
func TestDecodeYAMLMixedPointForms(t *testing.T) {
	doc := yamlDoc("  - [0, 0]\n  - {x: 3, y: 4}\n  - [-1.5, 2]\n  - {x: 0, y: -7}\n  - [1, 1]\n")
	in, err := Decode([]byte(doc), YAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []geometry.Point{{X: 0, Y: 0}, {X: 3, Y: 4}, {X: -1.5, Y: 2}, {X: 0, Y: -7}, {X: 1, Y: 1}}
	if diff := cmp.Diff(want, in.Points); diff != "" {
		t.Fatalf("points (-want +got):\n%s", diff)
	}
	if in.Params.Epsilon != 0.5 || in.Params.NPts != 3 {
		t.Fatalf("unexpected parameters %+v", in.Params)
	}
	if in.LCM[4][9] != lcm.Or || !in.PUV[14] {
		t.Fatal("expected LCM all ORR and PUV all true")
	}
}

func TestDecodeJSONObjectPoints(t *testing.T) {
	base, err := Encode(decide.DemoInput(), JSON)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(base, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	raw["points"] = []any{
		map[string]any{"x": 1, "y": 2},
		[]any{3, 4},
	}
	data, _ := json.Marshal(raw)

	in, err := Decode(data, JSON)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []geometry.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}
	if diff := cmp.Diff(want, in.Points); diff != "" {
		t.Fatalf("points (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"three coordinates", yamlDoc("  - [0, 0, 1]\n"), "expected [x, y]"},
		{"scalar point", yamlDoc("  - 5\n"), "expected [x, y] or {x, y}"},
		{"unknown connector", strings.Replace(yamlDoc("  - [0, 0]\n"), "ORR", "XOR", 1), "unknown connector"},
		{"short lcm", "points: []\nlcm: []\npuv: []\n", "lcm: expected 15 rows"},
		{"short puv", strings.Replace(yamlDoc("  - [0, 0]\n"), puvRow("true"), "[true]", 1), "puv: expected 15 entries"},
		{"unknown field", yamlDoc("  - [0, 0]\n") + "extra: 1\n", "extra"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.doc), YAML)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

// #endregion decode-tests

// #region file-tests
func TestLoadPicksFormatByExtension(t *testing.T) {
	if FormatFor("a/b.YML") != YAML || FormatFor("x.yaml") != YAML || FormatFor("x.json") != JSON || FormatFor("x") != JSON {
		t.Fatal("unexpected format selection")
	}

	dir := t.TempDir()
	want := decide.DemoInput()
	want.LCM.Set(2, 11, lcm.And)
	want.PUV[3] = true

	for _, name := range []string{"in.json", "in.yaml"} {
		data, err := Encode(want, FormatFor(name))
		if err != nil {
			t.Fatalf("Encode %s: %v", name, err)
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		got, err := Load(path)
		if err != nil {
			t.Fatalf("Load %s: %v", name, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("%s (-want +got):\n%s", name, diff)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil || !strings.Contains(err.Error(), "read input") {
		t.Fatalf("expected read error, got %v", err)
	}
}

// #endregion file-tests

// #region result-tests
func TestResultDocument(t *testing.T) {
	res, err := decide.Evaluate(decide.DemoInput())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	doc := FromResult(res)
	if doc.Answer != "YES" || len(doc.PUM) != 15 || len(doc.PUM[0]) != 15 {
		t.Fatalf("unexpected document %+v", doc)
	}
	back, err := doc.ToResult()
	if err != nil {
		t.Fatalf("ToResult: %v", err)
	}
	if diff := cmp.Diff(res, back); diff != "" {
		t.Fatalf("result (-want +got):\n%s", diff)
	}

	doc.PUM = doc.PUM[:3]
	if _, err := doc.ToResult(); err == nil {
		t.Fatal("expected shape error")
	}
}

// #endregion result-tests
