package xl

// StyleID identifies a registered Format within one Workbook. It is the
// index of the cellXfs record the cell will reference.
type StyleID int

// DefaultStyle is the implicit style of cells written without formatting.
const DefaultStyle StyleID = 0

// hyperlinkFormat is the builtin "Hyperlink" cell style.
var hyperlinkFormat = Format{
	Font: Font{Color: Color(0xFF0563C1), Underline: UnderlineSingle},
}

// styleRegistry deduplicates formats by value. Cell styles (cellXfs) and
// differential styles (dxfs, used by conditional formats and tables) are
// kept apart because they serialize differently.
type styleRegistry struct {
	xfs   []Format
	xfMap map[Format]StyleID

	hyperlink StyleID // 0 until the first hyperlink needs it

	dxfs   []Format
	dxfMap map[Format]int

	frozen bool
}

func newStyleRegistry() *styleRegistry {
	r := &styleRegistry{
		xfMap:  map[Format]StyleID{},
		dxfMap: map[Format]int{},
	}
	r.register(Format{})
	return r
}

// register returns the id of f, appending a new record the first time a
// value is seen.
func (r *styleRegistry) register(f Format) StyleID {
	key := f.normalized()
	if id, ok := r.xfMap[key]; ok {
		return id
	}
	id := StyleID(len(r.xfs))
	r.xfs = append(r.xfs, key)
	r.xfMap[key] = id
	return id
}

func (r *styleRegistry) hyperlinkStyle() StyleID {
	if r.hyperlink == 0 {
		r.hyperlink = r.register(hyperlinkFormat)
	}
	return r.hyperlink
}

func (r *styleRegistry) known(id StyleID) bool {
	return id >= 0 && int(id) < len(r.xfs)
}

func (r *styleRegistry) format(id StyleID) Format {
	return r.xfs[id]
}

// registerDxf returns the dxf index of f. Differential formats only carry
// the properties that were set, so the value is not normalized.
func (r *styleRegistry) registerDxf(f Format) int {
	if id, ok := r.dxfMap[f]; ok {
		return id
	}
	id := len(r.dxfs)
	r.dxfs = append(r.dxfs, f)
	r.dxfMap[f] = id
	return id
}

// AddFormat registers f and returns its style id. Registering equal values
// returns the same id every time.
func (wb *Workbook) AddFormat(f Format) (StyleID, error) {
	if wb.closed {
		return DefaultStyle, stateError("AddFormat")
	}
	if err := f.validate(); err != nil {
		return DefaultStyle, validationError("AddFormat", CodeParameterValidation, err)
	}
	return wb.styles.register(f), nil
}

// MustAddFormat is like AddFormat but panics on error. It is intended for
// formats built from constants.
func (wb *Workbook) MustAddFormat(f Format) StyleID {
	id, err := wb.AddFormat(f)
	if err != nil {
		panic(err)
	}
	return id
}

// Format returns the registered descriptor behind id.
func (wb *Workbook) Format(id StyleID) (Format, bool) {
	if !wb.styles.known(id) {
		return Format{}, false
	}
	return wb.styles.format(id), true
}

func (wb *Workbook) checkStyle(op string, id StyleID) error {
	if !wb.styles.known(id) {
		return validationError(op, CodeParameterValidation, ErrUnknownStyle)
	}
	return nil
}
