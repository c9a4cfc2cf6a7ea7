package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// IncidentHeader is the raw header of the incident dataset, with the
// irregular spacing and casing the loader has to normalize.
const IncidentHeader = " Year ,Type,Country,Species ,Age,Sex ,Fatal (Y/N),Time,Name"

// IncidentRows is a small dataset covering every page. Each line follows
// IncidentHeader.
var IncidentRows = []string{
	"2015,Unprovoked,USA,White shark,30,M,N,14h00,Alice",
	"2015,Unprovoked,USA,white SHARK,50,F,Y,14h30,Bob",
	"2015,Provoked,AUSTRALIA,Tiger shark,20,M,N,09h00,Carol",
	"2016,Watercraft,USA,Bull shark,45,M,N,Afternoon,Dan",
	"2016,Invalid,USA,Lemon shark,x,F,n,11h,Eve",
	"2013,Unprovoked,USA,Mako shark,40,F,Y,14h00,Alice",
	"2010,Unprovoked,USA,White shark,22,M,N,10h00,Frank",
	"unknown,Unprovoked,USA,White shark,25,M,N,10h00,Gus",
}

// WriteCSV writes a CSV source file under a temporary directory and returns its path
func WriteCSV(t *testing.T, name string, header string, rows ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	content := header + "\n" + strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
	return path
}

// WriteIncidentCSV writes the standard incident fixture and returns its path
func WriteIncidentCSV(t *testing.T) string {
	t.Helper()
	return WriteCSV(t, "attacks.csv", IncidentHeader, IncidentRows...)
}
