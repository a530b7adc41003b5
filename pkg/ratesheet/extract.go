package ratesheet

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/bundle"
	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/classify"
	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/detect"
	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/models"
	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/parser"
	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/vocab"
)

// Extractor runs sheet classification, header detection, table-end
// detection and context assembly. It holds no per-run state and is safe
// for concurrent use.
type Extractor struct {
	scorer     *detect.Scorer
	classifier *classify.Classifier
	params     detect.Params
	log        *zap.Logger
}

// NewExtractor builds an Extractor from opts. Zero-valued Detect or
// Classify parameters are replaced by their defaults.
func NewExtractor(opts Options) *Extractor {
	opts = opts.withDefaults()
	return &Extractor{
		scorer:     detect.NewScorer(vocab.New(opts.CustomTerms), opts.Detect),
		classifier: classify.New(opts.IgnoredSheets, opts.Classify),
		params:     opts.Detect,
		log:        opts.logger(),
	}
}

// Extract extracts rate tables and context bundles from a workbook file.
func Extract(path string, opts Options) (*models.WorkbookResult, error) {
	return NewExtractor(opts).ExtractFile(path)
}

// ExtractFile opens the workbook at path and extracts it.
func (e *Extractor) ExtractFile(path string) (*models.WorkbookResult, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	defer f.Close()

	bookName := filepath.Base(path)
	boxes, err := parser.TextBoxes(path)
	if err != nil {
		e.log.Warn("text boxes unreadable", zap.String("book", bookName), zap.Error(err))
		boxes = nil
	}
	return e.extract(f, bookName, boxes)
}

// ExtractWorkbook extracts every rate-table candidate sheet of f.
// Auxiliary sheets are read once and shared by all candidates. A sheet
// that cannot be read is recorded in Errors and skipped. Text boxes are
// only read by ExtractFile, which has the package path.
func (e *Extractor) ExtractWorkbook(f *excelize.File, bookName string) (*models.WorkbookResult, error) {
	return e.extract(f, bookName, nil)
}

func (e *Extractor) extract(f *excelize.File, bookName string, boxes map[string][]string) (*models.WorkbookResult, error) {
	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return nil, ErrNoSheets
	}

	log := e.log.With(zap.String("book", bookName))
	result := &models.WorkbookResult{
		BookName: bookName,
		Roles:    make(map[string]models.SheetRole, len(sheetList)),
	}

	var sources []bundle.Source
	var candidates []string
	for _, sheetName := range sheetList {
		role := e.classifier.Classify(sheetName)
		result.Roles[sheetName] = role
		log.Debug("classified sheet", zap.String("sheet", sheetName), zap.String("role", string(role)))

		switch {
		case role == models.RoleIgnored:
			continue
		case role.Auxiliary():
			g, err := parser.LoadGrid(f, sheetName)
			if err != nil {
				e.recordError(result, log, NewExtractionError(sheetName, "load", err))
				continue
			}
			sources = append(sources, bundle.Source{Name: sheetName, Role: role, Grid: g})
			if role != models.RoleSurcharge && e.classifier.IsSurcharge(sheetName) {
				sources = append(sources, bundle.Source{Name: sheetName, Role: models.RoleSurcharge, Grid: g})
			}
		default:
			candidates = append(candidates, sheetName)
		}
	}

	for _, sheetName := range candidates {
		g, err := parser.LoadGrid(f, sheetName)
		if err != nil {
			e.recordError(result, log, NewExtractionError(sheetName, "load", err))
			continue
		}
		res := e.ProcessSheet(sheetName, g, sources)

		comments, err := parser.Comments(f, sheetName)
		if err != nil {
			log.Warn("comments unreadable", zap.String("sheet", sheetName), zap.Error(err))
		}
		notes := append(comments, boxes[sheetName]...)
		res.Context = bundle.AppendNotes(res.Context, sheetName, notes)
		result.Sheets = append(result.Sheets, res)
	}

	log.Info("workbook extracted",
		zap.Int("sheets", len(sheetList)),
		zap.Int("candidates", len(candidates)),
		zap.Int("auxiliary", len(sources)),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

// ProcessSheet runs detection on one rate-table candidate grid and
// assembles its context bundles from the leftover rows and sources.
// When no header is found the whole grid becomes context.
func (e *Extractor) ProcessSheet(sheetName string, g models.Grid, sources []bundle.Source) models.SheetResult {
	log := e.log.With(zap.String("sheet", sheetName))
	res := models.SheetResult{Name: sheetName}

	cand, ok := e.scorer.LocateHeader(g)
	if !ok {
		log.Info("no header detected, sheet kept as context", zap.Int("rows", len(g)))
		res.Context = bundle.General(sheetName, g, sources)
		res.Surcharges = bundle.Surcharges(sheetName, g, sources)
		return res
	}

	tbl := detect.ExtractTable(g, cand.Row, e.params)
	tbl.Range = parser.RangeRef(cand.Row, tbl.End, g.Width())
	res.Table = &tbl
	res.HeaderScore = cand.Score

	log.Info("rate table located",
		zap.Int("header_row", cand.Row),
		zap.Float64("score", cand.Score),
		zap.Bool("fallback", cand.Fallback),
		zap.Int("start", tbl.Start),
		zap.Int("end", tbl.End),
		zap.Int("columns", len(tbl.Columns)),
		zap.Int("rows", len(tbl.Rows)))
	if tbl.Empty() {
		log.Warn("table empty after cleaning")
	}

	leftovers := bundle.LeftoverRows(g, tbl.Start, tbl.End)
	res.Context = bundle.General(sheetName, leftovers, sources)
	res.Surcharges = bundle.Surcharges(sheetName, leftovers, sources)
	return res
}

func (e *Extractor) recordError(result *models.WorkbookResult, log *zap.Logger, err *ExtractionError) {
	log.Warn("sheet skipped", zap.String("sheet", err.SheetName), zap.Error(err))
	result.Errors = append(result.Errors, err.Error())
}
