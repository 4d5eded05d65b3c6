package excel

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"churnboard/internal/errors"
	"churnboard/internal/logging"

	"github.com/xuri/excelize/v2"
)

var logger = logging.New("DataReader")

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a new data reader that handles both Excel and CSV files.
// Anything that is not .xlsx/.xlsm is read as CSV.
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "csv"
	if ext == ".xlsx" || ext == ".xlsm" {
		fileType = "xlsx"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// FileType returns "csv" or "xlsx".
func (r *DataReader) FileType() string {
	return r.fileType
}

// ReadData reads the file into a header row and data rows
func (r *DataReader) ReadData() (*TabularData, error) {
	logger.Debugf("Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); err != nil {
		return nil, errors.FileAccess(r.filePath, err)
	}

	switch r.fileType {
	case "xlsx":
		return r.readExcelData()
	default:
		return r.readCSVData()
	}
}

// readExcelData reads the first worksheet
func (r *DataReader) readExcelData() (*TabularData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrap(errors.ParseError(err.Error()), "failed to open Excel file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.ParseError("Excel file has no worksheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(errors.ParseError(err.Error()), "failed to read sheet %s", sheets[0])
	}
	logger.Infof("%s read in %.2fms (%d rows)", sheets[0], float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData() (*TabularData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.FileAccess(r.filePath, err)
	}
	defer file.Close()

	readStart := time.Now()
	rows, err := ReadCSV(file)
	if err != nil {
		return nil, err
	}
	logger.Infof("CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// ReadCSV reads every record from src. Rows with a different number of
// fields than the header are a parse error.
func ReadCSV(src io.Reader) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ParseError(err.Error()), "failed to read CSV file")
	}
	return rows, nil
}

// processRows splits the header from the data rows and trims every cell
func (r *DataReader) processRows(rows [][]string) (*TabularData, error) {
	if len(rows) == 0 {
		return nil, errors.ParseErrorf("%s has no header row", r.filePath)
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		if i == 0 {
			header = strings.TrimPrefix(header, "\ufeff")
		}
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([][]string, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := make([]string, len(headers))
		for j, cell := range rows[i] {
			if j >= len(headers) {
				break
			}
			row[j] = strings.TrimSpace(cell)
		}
		dataRows = append(dataRows, row)
	}

	logger.Infof("%s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &TabularData{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}
