package foam

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ZoneFile writes the aggregate "cellZones" or "faceZones" file. Zone files
// hold no data of their own: each entry splices the already-finalized body
// of one set file into a named zone block.
type ZoneFile struct {
	*FoamFile
	flipMap bool // faceZones carry an all-false flipMap per entry
}

// NewCellZoneFile creates the cellZones writer.
func NewCellZoneFile() *ZoneFile {
	return &ZoneFile{FoamFile: NewFoamFile("regIOobject", "cellZones", "")}
}

// NewFaceZoneFile creates the faceZones writer.
func NewFaceZoneFile() *ZoneFile {
	return &ZoneFile{
		FoamFile: NewFoamFile("regIOobject", "faceZones", ""),
		flipMap:  true,
	}
}

// WriteSet re-emits the label list body of the closed set file
// setsDir/setName as a zone entry. The set file is scanned past its header
// to the first line holding a bare item count, then copied verbatim until
// the line containing the list-closing delimiter. A missing or truncated
// set file yields an error; the partial zone entry is still terminated so
// the zones file stays parseable.
func (z *ZoneFile) WriteSet(setsDir, setName string) error {
	if z.Items() != 0 {
		z.WriteString("\n")
	}
	z.Printf("%s\n", setName)
	z.WriteString("{\n")
	z.writePrefix()

	labelCnt, err := z.spliceBody(filepath.Join(setsDir, setName))

	z.WriteString("  ;\n")
	if z.flipMap {
		z.Printf("  flipMap List<bool> %d{0};\n", labelCnt)
	}
	z.WriteString("}\n")
	z.IncrItems()
	return err
}

// writePrefix emits the zone type and label list declaration, both derived
// from the object name ("cellZones" -> "cellZone" / "cellLabels").
func (z *ZoneFile) writePrefix() {
	z.Printf("  type %s;\n", strings.TrimSuffix(z.Object, "s"))
	z.Printf("  %sLabels List<label>\n", z.Object[:4])
}

// spliceBody copies the count line and label rows of a set file into the
// zone file and returns the parsed item count.
func (z *ZoneFile) spliceBody(path string) (int, error) {
	setFile, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("foam: zone splice: %w", err)
	}
	defer setFile.Close()

	scanner := bufio.NewScanner(setFile)
	labelCnt := 0
	found := false
	for scanner.Scan() {
		line := scanner.Text()
		if n, convErr := strconv.Atoi(strings.TrimSpace(line)); convErr == nil {
			labelCnt = n
			found = true
			// copy from the count line through the closing delimiter
			for {
				z.Printf("  %s\n", line)
				if strings.ContainsRune(line, ')') {
					return labelCnt, nil
				}
				if !scanner.Scan() {
					break
				}
				line = scanner.Text()
			}
			break
		}
	}
	if !found {
		return 0, fmt.Errorf("foam: zone splice: no item count in %s", path)
	}
	return labelCnt, fmt.Errorf("foam: zone splice: %s truncated before ')'", path)
}
