package delivery

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"

	"github.com/taisugar/toolkit/dailynecessities"
	"github.com/taisugar/toolkit/freebie"
)

func purchase(stationID, station, day, product, qty, amount string) dailynecessities.Purchase {
	d, err := time.Parse("20060102", day)
	if err != nil {
		panic(err)
	}
	return dailynecessities.Purchase{
		StationID:       stationID,
		StationName:     station,
		Date:            dailynecessities.Date{Time: d},
		ProductName:     product,
		Quantity:        qty,
		AmountBeforeTax: amount,
		Price:           "0",
	}
}

var september = []dailynecessities.Purchase{
	purchase("SSC84", "博學", "20250903", "60抽盒裝面紙", "50.00", "260.0000"),
	purchase("IIB20", "成功嶺", "20250912", "60抽盒裝面紙", "20.00", "104.0000"),
	purchase("SSC84", "博學", "20250917", "60抽盒裝面紙", "30.00", "156.0000"),
	purchase("IIB20", "成功嶺", "20250911", "110抽盒裝面紙", "20.00", "150.0000"),
	purchase("IIB11", "柳林", "20250910", "台糖礦泉水600ml/箱", "12.00", "1152.0000"),
	purchase("IIB11", "柳林", "20251001", "60抽盒裝面紙", "99.00", "514.8000"),
	purchase("IIB11", "柳林", "20250901", "散裝尿素水--諾瓦", "1000.00", "9000.0000"),
	purchase("SSC84", "博學", "20250915", "160抽抽取式衛生紙", "40.00", "880.0000"),
}

func TestAggregate(t *testing.T) {
	// When
	record, err := Aggregate(september, freebie.Tissue60, 2025, time.September)

	// Then
	require.NoError(t, err)
	require.Len(t, record.Lines, 2)

	assert.Equal(t, "IIB20", record.Lines[0].StationID)
	assert.Equal(t, 1, record.Lines[0].Purchases)
	assert.Equal(t, "SSC84", record.Lines[1].StationID)
	assert.Equal(t, "博學", record.Lines[1].StationName)
	assert.Equal(t, 2, record.Lines[1].Purchases)
	assert.True(t, record.Lines[1].Quantity.Equal(decimal.NewFromInt(80)))
	assert.True(t, record.Lines[1].Amount.Equal(decimal.NewFromInt(416)))

	assert.True(t, record.TotalQuantity().Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "520.00", record.TotalAmount().StringFixed(2))
}

func TestAggregate_PerFreebie(t *testing.T) {
	tests := []struct {
		freebie  freebie.Freebie
		stations []string
	}{
		{freebie.Tissue110, []string{"IIB20"}},
		{freebie.MineralWater, []string{"IIB11"}},
	}

	for _, tt := range tests {
		t.Run(tt.freebie.Slug(), func(t *testing.T) {
			record, err := Aggregate(september, tt.freebie, 2025, time.September)
			require.NoError(t, err)

			var got []string
			for _, l := range record.Lines {
				got = append(got, l.StationID)
			}
			assert.Equal(t, tt.stations, got)
		})
	}
}

func TestAggregate_BadQuantity(t *testing.T) {
	bad := []dailynecessities.Purchase{purchase("X", "X", "20250901", "60抽盒裝面紙", "lots", "0")}

	_, err := Aggregate(bad, freebie.Tissue60, 2025, time.September)
	assert.Error(t, err)
}

func TestRecord_Labels(t *testing.T) {
	record := &Record{Freebie: freebie.MineralWater, Year: 2025, Month: time.September}

	assert.Equal(t, "礦泉水交貨統計表", record.Title())
	assert.Equal(t, "114年09月", record.MonthLabel())
	assert.Empty(t, record.ReportDateLabel())

	record.ReportDate = time.Date(2025, 10, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "114/10/02", record.ReportDateLabel())
}

func TestWorkbook_DefaultTemplate(t *testing.T) {
	// Given
	record, err := Aggregate(september, freebie.Tissue60, 2025, time.September)
	require.NoError(t, err)
	record.ReportDate = time.Date(2025, 10, 2, 0, 0, 0, 0, time.UTC)

	// When
	f, err := record.Workbook(nil)
	require.NoError(t, err)
	defer f.Close()

	// Then
	rows, err := f.GetRows("交貨統計", excelize.Options{RawCellValue: true})
	require.NoError(t, err)

	assert.Equal(t, "60抽面紙交貨統計表", rows[0][0])
	assert.Equal(t, "統計月份：114年09月", rows[1][0])
	assert.Equal(t, "報告日期：114/10/02", rows[1][3])
	assert.Equal(t, []string{"站代號", "站名", "進貨筆數", "數量", "未稅金額"}, rows[2])
	assert.Equal(t, []string{"IIB20", "成功嶺", "1", "20", "104"}, rows[3])
	assert.Equal(t, []string{"SSC84", "博學", "2", "80", "416"}, rows[4])
	assert.Equal(t, []string{"合計", "", "", "100", "520"}, rows[5])
}

func TestWorkbook_NoLines(t *testing.T) {
	record := &Record{Freebie: freebie.Tissue110, Year: 2025, Month: time.February}

	f, err := record.Workbook(nil)
	require.NoError(t, err)
	defer f.Close()

	total, err := f.GetCellValue("交貨統計", "A5")
	require.NoError(t, err)
	assert.Equal(t, "合計", total)
	empty, err := f.GetCellValue("交貨統計", "A4")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestWorkbook_FractionalQuantity(t *testing.T) {
	// Given
	purchases := []dailynecessities.Purchase{
		purchase("IIB11", "柳林", "20250910", "台糖礦泉水600ml/箱", "2.50", "240.0000"),
	}
	record, err := Aggregate(purchases, freebie.MineralWater, 2025, time.September)
	require.NoError(t, err)

	// When
	f, err := record.Workbook(nil)
	require.NoError(t, err)
	defer f.Close()

	// Then the xlsx carries the same quantity as the csv
	rows, err := f.GetRows("交貨統計", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"IIB11", "柳林", "1", "2.5", "240"}, rows[3])
	assert.Equal(t, []string{"合計", "", "", "2.5", "240"}, rows[4])

	var buf bytes.Buffer
	require.NoError(t, record.WriteCSV(&buf))
	assert.Contains(t, buf.String(), "IIB11,")
	assert.Contains(t, buf.String(), ",1,2.5,240.00\r\n")
}

func TestWriteCSV_Big5(t *testing.T) {
	// Given
	record, err := Aggregate(september, freebie.Tissue60, 2025, time.September)
	require.NoError(t, err)

	// When
	var buf bytes.Buffer
	require.NoError(t, record.WriteCSV(&buf))

	// Then
	decoded := transform.NewReader(&buf, traditionalchinese.Big5.NewDecoder())
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"60抽面紙交貨統計表", "114年09月", ""}, records[0])
	assert.Equal(t, []string{"SSC84", "博學", "2", "80", "416.00"}, records[3])
	assert.Equal(t, []string{"合計", "", "", "100", "520.00"}, records[4])
}

func TestWorkbook_DetailSheet(t *testing.T) {
	// Given
	record, err := Aggregate(september, freebie.Tissue60, 2025, time.September)
	require.NoError(t, err)

	// When
	f, err := record.Workbook(nil)
	require.NoError(t, err)
	defer f.Close()

	// Then
	assert.Equal(t, []string{"交貨統計", DetailSheet}, f.GetSheetList())

	rows, err := f.GetRows(DetailSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, detailHeaders, rows[0])
	assert.Equal(t, []string{"114/09/03", "SSC84", "博學", "", "60抽盒裝面紙", "", "0", "50", "260"}, rows[1])
	assert.Equal(t, "IIB20", rows[2][1])
	assert.Equal(t, "114/09/17", rows[3][0])

	width, err := f.GetColWidth(DetailSheet, "E")
	require.NoError(t, err)
	assert.Equal(t, 24.0, width)

	header := cellStyle(t, f, "A1")
	require.NotNil(t, header.Font)
	assert.True(t, header.Font.Bold)
	assert.Equal(t, 4, cellStyle(t, f, "I2").NumFmt)
	assert.Equal(t, 3, cellStyle(t, f, "H2").NumFmt)
	assert.Equal(t, "left", cellStyle(t, f, "E2").Alignment.Horizontal)
}

func cellStyle(t *testing.T, f *excelize.File, cell string) *excelize.Style {
	t.Helper()
	id, err := f.GetCellStyle(DetailSheet, cell)
	require.NoError(t, err)
	style, err := f.GetStyle(id)
	require.NoError(t, err)
	return style
}
