package foam

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/notargets/gofoam/grid"
)

// ErrCancelled is returned by Export when the progress reporter requested a
// stop. It is a clean outcome, not a failure.
var ErrCancelled = errors.New("foam: export cancelled")

// Exporter converts a grid.Model into the OpenFOAM polyMesh file set inside
// one target directory (conventionally <case>/constant/polyMesh). One
// Exporter performs one export; it owns its open files and used-filename
// registry for the duration of that run.
type Exporter struct {
	model   grid.Model
	opts    Options
	prog    Progress
	baseDir string
	setsDir string

	is2D            bool
	props           GridProperties
	thickness       float64
	doThicknessCalc bool

	faces     *FacesFile
	owner     *AddressFile
	neighbour *AddressFile
	bcStats   BcStats

	usedFileNames map[string]bool
	vcSets        []*VcSets
	blkOffset     map[int]int
	totElemCnt    int
	shadowSets    map[int]*SetFile // non-inflated domain id -> face set

	numFaces        int
	totalEdgeLength float64
	doFaceSets      bool
	setsDirCreated  bool
	streamErr       error
}

// NewExporter creates an exporter writing into baseDir, which must already
// exist. A nil progress reporter disables reporting.
func NewExporter(m grid.Model, baseDir string, opts Options, prog Progress) *Exporter {
	if prog == nil {
		prog = NopProgress{}
	}
	return &Exporter{
		model:         m,
		opts:          opts,
		prog:          prog,
		baseDir:       baseDir,
		setsDir:       filepath.Join(baseDir, "sets"),
		usedFileNames: make(map[string]bool),
		blkOffset:     make(map[int]int),
		shadowSets:    make(map[int]*SetFile),
	}
}

// Export runs the conversion: face/owner/neighbour streaming with boundary
// accumulation, points (doubled for 2D), volume-condition sets and zones.
// The first fatal condition aborts the remaining stages; files already open
// are closed so the output directory is left in a consistent state.
func (e *Exporter) Export() error {
	e.is2D = e.model.Dimension() == 2
	e.thickness = e.opts.Thickness
	e.doThicknessCalc = e.is2D && e.thickness == 0

	if e.is2D {
		// same-condition blocks must stream adjacently so the side patch
		// runs stay contiguous
		if co, ok := e.model.(grid.CellOrderer); ok {
			co.SortCellsByCondition()
		}
		props, err := ValidateGrid(e.model, e.opts.PointTolerance)
		if err != nil {
			return err
		}
		e.props = props
		if !props.Planar {
			return fmt.Errorf("foam: the grid is not Z-planar")
		}
		if !props.Consistent {
			return fmt.Errorf("foam: the grid has inconsistent normals")
		}
	}

	err := e.run()

	if e.setsDirCreated {
		// fails when the dir holds exported sets, which is fine
		os.Remove(e.setsDir)
	}
	return err
}

func (e *Exporter) run() error {
	if e.needSetsDir() {
		if err := e.createSetsDir(); err != nil {
			return fmt.Errorf("foam: could not create sets directory: %w", err)
		}
		if err := e.prepareVcSets(); err != nil {
			return fmt.Errorf("foam: could not prepare VC set files: %w", err)
		}
	}
	if err := e.processFaces(); err != nil {
		return err
	}
	if err := e.processPoints(); err != nil {
		return err
	}
	return e.processCells()
}

func (e *Exporter) needSetsDir() bool {
	return e.opts.CellExport != grid.ExportNone || e.opts.FaceExport != grid.ExportNone
}

func (e *Exporter) faceSetsNeeded() bool {
	return e.opts.FaceExport != grid.ExportNone && len(e.vcSets) > 0
}

func (e *Exporter) cellSetsNeeded() bool {
	return e.opts.CellExport != grid.ExportNone && len(e.vcSets) > 0
}

func (e *Exporter) createSetsDir() error {
	err := os.Mkdir(e.setsDir, 0o777)
	if err == nil {
		e.setsDirCreated = true
		return nil
	}
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	return err
}

// prepareVcSets builds one set bundle per distinct volume condition name.
// Multiple blocks legitimately alias one bundle, so the mapping is
// two-level: block id -> bundle offset, condition name -> bundle offset.
func (e *Exporter) prepareVcSets() error {
	nameOffset := make(map[string]int)
	for blk := 0; blk < e.model.BlockCount(); blk++ {
		vc, ok := e.model.BlockCondition(blk)
		if !ok {
			vc = grid.Unspecified
		}
		off, found := nameOffset[vc.Name]
		if !found {
			off = len(e.vcSets)
			nameOffset[vc.Name] = off
			v, err := NewVcSets(vc, e.setsDir, e.usedFileNames)
			if err != nil {
				return err
			}
			e.vcSets = append(e.vcSets, v)
		}
		e.blkOffset[blk] = off
		e.totElemCnt += e.model.BlockElementCount(blk)
	}
	return nil
}

// processFaces streams every mesh face through the Begin/Face/End handler
// below, then finalizes face sets and zones.
func (e *Exporter) processFaces() error {
	ok := e.model.StreamFaces(grid.FaceOrderBCGroupsLast, e)

	if e.faces != nil {
		e.faces.Close()
	}
	if e.owner != nil {
		e.owner.Close()
	}
	if e.neighbour != nil {
		e.neighbour.Close()
	}
	e.finalizeFaceSets()

	if e.streamErr != nil {
		return fmt.Errorf("foam: could not write face files: %w", e.streamErr)
	}
	if !ok {
		return ErrCancelled
	}

	if e.opts.FaceExport.Zones() {
		e.writeFaceZones()
	}
	if !e.opts.FaceExport.Sets() {
		for _, v := range e.vcSets {
			v.DeleteFaceSetFiles()
		}
		for _, sf := range e.shadowSets {
			sf.Close()
			os.Remove(filepath.Join(e.setsDir, sf.Object))
		}
	}
	return nil
}

// Begin opens the faces, owner and neighbour files; they are written in
// parallel as faces stream in.
func (e *Exporter) Begin(data grid.BeginStreamData) bool {
	e.numFaces = data.TotalFaces
	e.doFaceSets = e.faceSetsNeeded()
	e.totalEdgeLength = 0

	e.faces = NewFacesFile(e.is2D, e.model.VertexCount())
	e.owner = NewOwnerFile()
	e.neighbour = NewNeighbourFile()

	if !e.prog.BeginStep(data.TotalFaces) {
		return false
	}
	for _, f := range []interface{ Create(string) error }{e.faces, e.owner, e.neighbour} {
		if err := f.Create(e.baseDir); err != nil {
			e.streamErr = err
			return false
		}
	}
	return true
}

// Face writes one streamed face: connectivity, owner address and either a
// boundary accumulation or a neighbour address.
func (e *Exporter) Face(data *grid.FaceStreamData) bool {
	e.faces.WriteFace(data.Elem)
	e.owner.WriteAddress(data.OwnerCell)

	if data.Type == grid.FaceBoundary {
		e.pushBcFace(e.domainCondition(data.Domain), data.Face)
	} else {
		e.neighbour.WriteAddress(data.NeighbourCell)
	}

	if e.opts.FaceExport != grid.ExportNone &&
		data.Type == grid.FaceConnection && data.Domain >= 0 {
		sf, err := e.shadowSet(data.Domain)
		if err != nil {
			e.streamErr = fmt.Errorf("could not create faceSet: %w", err)
			return false
		}
		sf.WriteAddress(data.Face)
	}

	if e.doFaceSets {
		e.addFaceToSets(data)
	}

	if e.doThicknessCalc {
		p0, ok0 := e.model.Vertex(data.Elem.Nodes[0])
		p1, ok1 := e.model.Vertex(data.Elem.Nodes[1])
		if ok0 && ok1 {
			dx, dy, dz := p1[0]-p0[0], p1[1]-p0[1], p1[2]-p0[2]
			e.totalEdgeLength += math.Sqrt(dx*dx + dy*dy + dz*dz)
		}
	}
	return e.prog.Incr()
}

// End closes lazily created shadow sets, synthesizes the 2D extrusion
// layers, flushes the boundary file and resolves the auto thickness.
func (e *Exporter) End(ok bool) bool {
	for _, sf := range e.shadowSets {
		sf.Close()
	}
	if ok {
		if e.is2D {
			e.writeExtrudedFaces()
		}
		boundary := NewBoundaryFile()
		if err := boundary.Create(e.baseDir); err != nil {
			e.streamErr = err
		} else {
			boundary.WriteBoundaries(e.bcStats)
			boundary.Close()
		}
		if e.doThicknessCalc && e.numFaces > 0 {
			// for 2D grids numFaces is the number of streamed cell edges
			e.thickness = e.totalEdgeLength / float64(e.numFaces)
			e.prog.Info(fmt.Sprintf("2D Thickness set to %g", e.thickness))
		}
	}
	return e.prog.EndStep()
}

func (e *Exporter) domainCondition(domain int) grid.Condition {
	if domain >= 0 {
		if cond, ok := e.model.DomainCondition(domain); ok {
			return cond
		}
	}
	return grid.Unspecified
}

func (e *Exporter) pushBcFace(cond grid.Condition, faceID int) {
	e.bcStats.Push(cond, faceID)
}

// shadowSet returns the face set file for a non-inflated (connection)
// domain, creating it on first use.
func (e *Exporter) shadowSet(domain int) (*SetFile, error) {
	if sf, ok := e.shadowSets[domain]; ok {
		return sf, nil
	}
	if err := e.createSetsDir(); err != nil {
		return nil, err
	}
	cond, ok := e.model.DomainCondition(domain)
	if !ok {
		return nil, fmt.Errorf("no condition for domain %d", domain)
	}
	sf := NewFaceSetFile(uniqueSafeFileName(cond.Name, e.usedFileNames, ""))
	if err := sf.Create(e.setsDir); err != nil {
		return nil, err
	}
	e.shadowSets[domain] = sf
	return sf, nil
}

// adjustFaceType retags a connection face as interior when the blocks on
// both sides carry the same volume condition name. Conditions are compared
// by name, so two distinct conditions that happen to share a name merge
// silently.
func (e *Exporter) adjustFaceType(data *grid.FaceStreamData) grid.FaceType {
	if data.Type != grid.FaceConnection || data.NeighbourBlock < 0 {
		return data.Type
	}
	vcOwner, ok1 := e.model.BlockCondition(data.OwnerBlock)
	vcNeighbour, ok2 := e.model.BlockCondition(data.NeighbourBlock)
	if ok1 && ok2 && vcOwner.Name == vcNeighbour.Name {
		return grid.FaceInterior
	}
	return data.Type
}

// addFaceToSets forwards a streamed face to the owning block's set bundle,
// and for true connection faces also to the neighbour block's bundle (the
// two sides carry different volume conditions).
func (e *Exporter) addFaceToSets(data *grid.FaceStreamData) {
	ft := e.adjustFaceType(data)
	e.addFaceToBlockSet(data.OwnerBlock, ft, data.Face)
	if ft == grid.FaceConnection && data.NeighbourBlock >= 0 {
		e.addFaceToBlockSet(data.NeighbourBlock, ft, data.Face)
	}
}

func (e *Exporter) addFaceToBlockSet(blk int, ft grid.FaceType, faceID int) {
	off, ok := e.blkOffset[blk]
	if !ok {
		return
	}
	e.vcSets[off].AddFace(ft, faceID)
}

// processPoints writes all global vertices, plus the offset plane for 2D.
func (e *Exporter) processPoints() error {
	if e.is2D && e.props.Orientation == grid.UnknownZ {
		return fmt.Errorf("foam: could not write points file: unknown orientation")
	}
	numPts := e.model.VertexCount()
	total := numPts
	if e.is2D {
		total *= 2
	}
	points := NewPointFile(e.opts.PointPrecision)
	if !e.prog.BeginStep(total) {
		return ErrCancelled
	}
	defer e.prog.EndStep()
	if err := points.Create(e.baseDir); err != nil {
		return fmt.Errorf("foam: could not write points file: %w", err)
	}
	defer points.Close()

	for i := 0; i < numPts; i++ {
		p, ok := e.model.Vertex(i)
		if !ok {
			return fmt.Errorf("foam: missing vertex %d", i)
		}
		points.WriteVertex(p[0], p[1], p[2])
		if !e.prog.Incr() {
			return ErrCancelled
		}
	}
	if e.is2D {
		// second point plane for the one-cell-thick extrusion
		newZ := e.props.PlaneZ + float64(e.props.Orientation)*e.thickness
		for i := 0; i < numPts; i++ {
			p, _ := e.model.Vertex(i)
			points.WriteVertex(p[0], p[1], newZ)
			if !e.prog.Incr() {
				return ErrCancelled
			}
		}
	}
	return nil
}

// processCells builds cell sets (a second full pass over all cells, grouped
// by block) and the cellZones file per the cell export policy.
func (e *Exporter) processCells() error {
	if !e.cellSetsNeeded() {
		return nil
	}
	if e.opts.CellExport.Zones() {
		if err := e.writeCellSetFiles(); err != nil {
			return err
		}
		e.writeCellZones()
		if !e.opts.CellExport.Sets() {
			for _, v := range e.vcSets {
				v.DeleteCellSetFiles()
			}
		}
		return nil
	}
	return e.writeCellSetFiles()
}

// writeCellSetFiles walks the global cell enumeration once, switching set
// bundles at block boundaries. Blocks whose condition maps to no cell set
// are skipped wholesale using the block's element count.
func (e *Exporter) writeCellSetFiles() error {
	if !e.prog.BeginStep(e.totElemCnt) {
		return ErrCancelled
	}
	defer e.prog.EndStep()

	curBlk := -1
	var vf *VcSets
	for cellID := 0; cellID < e.model.CellCount(); cellID++ {
		_, blk, ok := e.model.Cell(cellID)
		if !ok {
			break
		}
		if blk != curBlk {
			curBlk = blk
			vf = nil
			if off, found := e.blkOffset[blk]; found {
				vf = e.vcSets[off]
			}
			if vf == nil || !vf.HasCellSet() {
				// jump past the whole block; -1 for the loop increment
				cellID += e.model.BlockElementCount(blk) - 1
				vf = nil
				continue
			}
		}
		if vf != nil {
			vf.PushCell(cellID)
			if !e.prog.Incr() {
				return ErrCancelled
			}
		}
	}
	e.finalizeCellSets()
	return nil
}

func (e *Exporter) writeCellZones() {
	e.finalizeCellSets()
	zones := NewCellZoneFile()
	if !e.prog.BeginStep(len(e.vcSets)) {
		return
	}
	defer e.prog.EndStep()
	if err := zones.Create(e.baseDir); err != nil {
		e.prog.Info(fmt.Sprintf("could not create cellZones: %v", err))
		return
	}
	defer zones.Close()
	for _, v := range e.vcSets {
		if err := v.AddCellSetToZones(zones); err != nil {
			// recoverable: that zone entry is skipped
			e.prog.Info(fmt.Sprintf("cellZones: %v", err))
		}
		if !e.prog.Incr() {
			return
		}
	}
}

func (e *Exporter) writeFaceZones() {
	e.finalizeFaceSets()
	zones := NewFaceZoneFile()
	if !e.prog.BeginStep(len(e.vcSets) + len(e.shadowSets)) {
		return
	}
	defer e.prog.EndStep()
	if err := zones.Create(e.baseDir); err != nil {
		e.prog.Info(fmt.Sprintf("could not create faceZones: %v", err))
		return
	}
	defer zones.Close()
	for _, v := range e.vcSets {
		if err := v.AddFaceSetsToZones(zones); err != nil {
			e.prog.Info(fmt.Sprintf("faceZones: %v", err))
		}
		if !e.prog.Incr() {
			return
		}
	}
	ids := make([]int, 0, len(e.shadowSets))
	for id := range e.shadowSets {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if err := zones.WriteSet(e.setsDir, e.shadowSets[id].Object); err != nil {
			e.prog.Info(fmt.Sprintf("faceZones: %v", err))
		}
		if !e.prog.Incr() {
			return
		}
	}
}

func (e *Exporter) finalizeFaceSets() {
	for _, v := range e.vcSets {
		v.FinalizeFaceSets()
	}
}

func (e *Exporter) finalizeCellSets() {
	for _, v := range e.vcSets {
		v.FinalizeCellSet()
	}
}
