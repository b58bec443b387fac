package sheetctl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/grandline/internal/services/sheets/archive"
	"github.com/louisbranch/grandline/internal/services/sheets/identity"
)

var fixedNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestNormalizeLegacyToStdout(t *testing.T) {
	in := writeFile(t, "legacy.json", `{"nome": "Usopp", "raca": "humano", "vida": 4, "competenciaPontos": 2}`)

	var out bytes.Buffer
	if err := Run([]string{"normalize", "-in", in}, &out, clock); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(out.Bytes(), &record); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out.String())
	}
	if record["nome"] != "Usopp" || record["raca"] != "Humano" {
		t.Fatalf("identity = %v / %v", record["nome"], record["raca"])
	}
	if record["pontosCompetenciaDisponiveis"] != float64(2) {
		t.Fatalf("points = %v", record["pontosCompetenciaDisponiveis"])
	}
	if _, ok := record["vida"]; ok {
		t.Fatal("legacy key should not survive normalization")
	}
	if _, ok := record["classeAcerto"]; !ok {
		t.Fatal("expected derived fields in output")
	}
}

func TestNormalizeToYAMLFileByExtension(t *testing.T) {
	in := writeFile(t, "sheet.json", `{"nome": "Brook"}`)
	outPath := filepath.Join(t.TempDir(), "nested", "brook.yaml")

	if err := Run([]string{"normalize", "-in", in, "-out", outPath}, &bytes.Buffer{}, clock); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "nome: Brook") {
		t.Fatalf("yaml = %s", data)
	}
}

func TestNormalizeToWorkbook(t *testing.T) {
	in := writeFile(t, "sheet.yaml", "nome: Franky\nforcaBase: 6\n")
	outPath := filepath.Join(t.TempDir(), "franky.out")

	if err := Run([]string{"normalize", "-in", in, "-out", outPath, "-format", "xlsx"}, &bytes.Buffer{}, clock); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	sheet, err := archive.Import(archive.FormatXLSX, data)
	if err != nil {
		t.Fatalf("reimport workbook: %v", err)
	}
	if sheet.Name != "Franky" {
		t.Fatalf("name = %q", sheet.Name)
	}
}

func TestNormalizeErrors(t *testing.T) {
	valid := writeFile(t, "ok.json", `{"nome": "Chopper"}`)
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing in", args: []string{"normalize"}},
		{name: "unknown input extension", args: []string{"normalize", "-in", writeFile(t, "x.txt", "nome")}},
		{name: "missing file", args: []string{"normalize", "-in", filepath.Join(t.TempDir(), "none.json")}},
		{name: "shape mismatch", args: []string{"normalize", "-in", writeFile(t, "bad.json", `{"foo": 1}`)}},
		{name: "unknown output format", args: []string{"normalize", "-in", valid, "-format", "csv"}},
		{name: "xlsx to stdout", args: []string{"normalize", "-in", valid, "-format", "xlsx"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := Run(tc.args, &bytes.Buffer{}, clock); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestTokenVerifies(t *testing.T) {
	t.Setenv("GRANDLINE_JWT_SECRET", "cli-secret")
	t.Setenv("GRANDLINE_JWT_ISSUER", "")

	var out bytes.Buffer
	if err := Run([]string{"token", "-sub", "42", "-username", "nami", "-ttl", "1h"}, &out, clock); err != nil {
		t.Fatalf("token: %v", err)
	}
	verifier, err := identity.NewVerifier(identity.Config{Secret: []byte("cli-secret"), Now: clock})
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}
	profile, err := verifier.Verify(context.Background(), strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if profile.ID != "42" || profile.Username != "nami" || !profile.ExpiresAt.Equal(fixedNow.Add(time.Hour)) {
		t.Fatalf("profile = %+v", profile)
	}
}

func TestTokenRequiresSubjectAndSecret(t *testing.T) {
	t.Setenv("GRANDLINE_JWT_SECRET", "")
	if err := Run([]string{"token", "-username", "nami"}, &bytes.Buffer{}, clock); err == nil {
		t.Fatal("expected error without -sub")
	}
	if err := Run([]string{"token", "-sub", "42"}, &bytes.Buffer{}, clock); err == nil {
		t.Fatal("expected error without secret")
	}
}

func TestRunUsage(t *testing.T) {
	if err := Run(nil, &bytes.Buffer{}, clock); !errors.Is(err, ErrUsage) {
		t.Fatalf("err = %v", err)
	}
	if err := Run([]string{"roll"}, &bytes.Buffer{}, clock); !errors.Is(err, ErrUsage) {
		t.Fatalf("err = %v", err)
	}
}
