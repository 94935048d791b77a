package decoder

import (
	"errors"
	"testing"
	"time"

	"ari/moneyworks-cli/internal/mwerror"
	"ari/moneyworks-cli/internal/xmlutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const transactionExport = `<?xml version="1.0"?>
<table name="Transaction" count="1" found="1" start="0">
	<transaction>
		<sequencenumber>20680</sequencenumber>
		<type>DI</type>
		<ourref>00123</ourref>
		<invoicedate>20060614</invoicedate>
		<logintime>20060614153000</logintime>
		<gross>3.14</gross>
		<description></description>
		<padded> 42 </padded>
		<huge>123456789012345678901234567890</huge>
		<subfile name="Detail">
			<detail>
				<detail.account>4000</detail.account>
				<detail.description>Consulting</detail.description>
			</detail>
			<detail>
				<detail.account>4010</detail.account>
				<detail.description>Travel &amp; accommodation</detail.description>
			</detail>
		</subfile>
	</transaction>
	<name><code>NOT-A-TRANSACTION</code></name>
</table>`

func TestDecode_TypeInference(t *testing.T) {
	records, err := Decode(transactionExport, "transaction")
	require.NoError(t, err)
	require.Len(t, records, 1)
	r := records[0]

	assert.Equal(t, int64(20680), r["sequencenumber"])
	assert.Equal(t, "DI", r["type"])
	assert.Equal(t, int64(123), r["ourref"], "leading zeros still parse as an integer")
	assert.Equal(t, time.Date(2006, time.June, 14, 0, 0, 0, 0, time.UTC), r["invoicedate"])
	assert.Equal(t, time.Date(2006, time.June, 14, 15, 30, 0, 0, time.UTC), r["logintime"])
	assert.Equal(t, 3.14, r["gross"])
	assert.Equal(t, "", r["description"])
	assert.Equal(t, " 42 ", r["padded"], "whitespace-padded numbers stay strings")

	huge, ok := r["huge"].(float64)
	require.True(t, ok, "integers beyond int64 fall back to float64")
	assert.InDelta(t, 1.2345678901234568e29, huge, 1e15)
}

func TestDecode_Subfile(t *testing.T) {
	records, err := Decode(transactionExport, "transaction")
	require.NoError(t, err)

	details, ok := records[0].Sub("Details")
	require.True(t, ok)
	require.Len(t, details, 2)
	assert.Equal(t, int64(4000), details[0]["detail.account"])
	assert.Equal(t, "Travel & accommodation", details[1]["detail.description"])
	_, hasRaw := records[0]["subfile"]
	assert.False(t, hasRaw)
}

func TestDecode_SelectsOnlyRecordTag(t *testing.T) {
	records, err := Decode(transactionExport, "name")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "NOT-A-TRANSACTION", records[0]["code"])

	none, err := Decode(transactionExport, "account")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDecode_EmptyTable(t *testing.T) {
	records, err := Decode(`<table name="Name" count="0" found="0" start="0"></table>`, "name")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestDecode_SimpleValues(t *testing.T) {
	tests := []struct {
		name  string
		field string
		text  string
		want  any
	}{
		{"integer", "count", "42", int64(42)},
		{"negative integer", "balance", "-7", int64(-7)},
		{"float", "rate", "3.14", 3.14},
		{"string", "code", "abc", "abc"},
		{"date", "duedate", "20240229", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"timestamp", "lastmodifiedtime", "20240229235959", time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)},
		{"empty date", "datepaid", "", ""},
		{"not a date suffix", "dateline", "20240229", int64(20240229)},
		{"grouped integer", "qty", "1_000", int64(1000)},
		{"negative grouped integer", "qty", "-12_500", int64(-12500)},
		{"double underscore", "code", "1__0", "1__0"},
		{"leading underscore", "code", "_10", "_10"},
		{"hex float", "code", "0x1p3", "0x1p3"},
		{"hex integer", "code", "0x10", "0x10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeValue(tt.field, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_BadDateIsHardError(t *testing.T) {
	doc := `<table><name><lastpaymentdate>2006-06-14</lastpaymentdate></name></table>`
	_, err := Decode(doc, "name")
	require.Error(t, err)
	assert.True(t, errors.Is(err, mwerror.ErrDecode))

	var de *mwerror.DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "lastpaymentdate", de.Field)

	_, err = Decode(`<table><name><t><x>1</x><sometime>noon</sometime></t></name></table>`, "t")
	assert.NoError(t, err, "only direct children of the root are decoded")

	doc = `<table><transaction><subfile name="Detail"><detail><detail.stockdate>bad</detail.stockdate></detail></subfile></transaction></table>`
	_, err = Decode(doc, "transaction")
	assert.True(t, errors.Is(err, mwerror.ErrDecode), "nested records are checked too")
}

func TestDecode_MalformedXML(t *testing.T) {
	for _, doc := range []string{"", "<table><name></table>", "not xml at all"} {
		_, err := Decode(doc, "name")
		assert.True(t, errors.Is(err, mwerror.ErrDecode), "%q", doc)
	}
}

func TestDecode_Latin1(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><table><name><name>Caf\xe9</name></name></table>"
	records, err := Decode(doc, "name")
	require.NoError(t, err)
	assert.Equal(t, "Café", records[0]["name"])
}

func TestDecodeTable_Latin1(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<table name=\"Name\" count=\"1\" found=\"3\" start=\"0\"><name><name>Caf\xe9</name></name></table>"

	table, err := DecodeTable(doc, "name")
	require.NoError(t, err)
	assert.Equal(t, xmlutils.TableInfo{Name: "Name", Count: 1, Found: 3, Start: 0}, table.Info)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "Café", table.Records[0]["name"])
}

func TestDecodeTable(t *testing.T) {
	table, err := DecodeTable(transactionExport, "transaction")
	require.NoError(t, err)
	assert.Equal(t, xmlutils.TableInfo{Name: "Transaction", Count: 1, Found: 1, Start: 0}, table.Info)
	assert.Len(t, table.Records, 1)
}

func TestRecordAccessors(t *testing.T) {
	r := Record{
		"code":   "ACME",
		"qty":    int64(3),
		"price":  2.5,
		"when":   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		"Detail": "x",
		"Details": []Record{
			{"detail.account": int64(1)},
		},
	}

	s, ok := r.String("code")
	assert.True(t, ok)
	assert.Equal(t, "ACME", s)

	i, ok := r.Int("qty")
	assert.True(t, ok)
	assert.Equal(t, int64(3), i)

	f, ok := r.Float("qty")
	assert.True(t, ok)
	assert.Equal(t, 3.0, f)
	f, _ = r.Float("price")
	assert.Equal(t, 2.5, f)
	_, ok = r.Float("code")
	assert.False(t, ok)

	_, ok = r.Time("when")
	assert.True(t, ok)

	rows, ok := r.Sub("Details")
	assert.True(t, ok)
	assert.Len(t, rows, 1)

	assert.Equal(t, []string{"Detail", "Details", "code", "price", "qty", "when"}, r.Keys())
}
