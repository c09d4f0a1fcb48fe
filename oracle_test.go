package jsonvalue_test

import (
	"bytes"
	"math/rand"
	"strconv"
	"testing"

	"github.com/buger/jsonparser"
	gojson "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"

	jsonvalue "github.com/reoring/jsonvalue"
)

// genDoc writes a random document whose numbers all take the double fast
// path, so every decoder that yields float64 must agree with it.
func genDoc(r *rand.Rand, buf *bytes.Buffer, depth int) {
	k := r.Intn(8)
	if depth >= 6 && k >= 6 {
		k = r.Intn(6)
	}
	switch k {
	case 0:
		buf.WriteString("null")
	case 1:
		buf.WriteString(strconv.FormatBool(r.Intn(2) == 0))
	case 2:
		buf.WriteString(strconv.FormatInt(r.Int63n(2e12)-1e12, 10))
	case 3:
		buf.WriteString(strconv.FormatFloat((r.Float64()-0.5)*1e6, 'g', 12, 64))
	case 4:
		buf.WriteString(strconv.FormatFloat(r.Float64()*1e-3, 'e', 6, 64))
	case 5:
		genString(r, buf)
	case 6:
		buf.WriteByte('[')
		n := r.Intn(5)
		for i := 0; i < n; i++ {
			if i > 0 {
				buf.WriteString(", ")
			}
			genDoc(r, buf, depth+1)
		}
		buf.WriteByte(']')
	default:
		buf.WriteString("{\n")
		n := r.Intn(5)
		for i := 0; i < n; i++ {
			if i > 0 {
				buf.WriteString(",\n")
			}
			buf.WriteString(`"k` + strconv.Itoa(i) + `": `)
			genDoc(r, buf, depth+1)
		}
		buf.WriteString("\n}")
	}
}

var genRunes = []rune("abcxyz \"\\/\n\t\x01é日😀<>&")

func genString(r *rand.Rand, buf *bytes.Buffer) {
	rs := make([]rune, r.Intn(24))
	for i := range rs {
		rs[i] = genRunes[r.Intn(len(genRunes))]
	}
	b, _ := gojson.Marshal(string(rs))
	buf.Write(b)
}

func TestOracle_GenericDecoders(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	var buf bytes.Buffer
	for iter := 0; iter < 500; iter++ {
		buf.Reset()
		genDoc(r, &buf, 0)
		data := buf.Bytes()

		v, err := jsonvalue.Parse(data)
		if err != nil {
			t.Fatalf("%s: %v", data, err)
		}
		got := plain(&v)

		var viaGoccy, viaJsoniter any
		if err := gojson.Unmarshal(data, &viaGoccy); err != nil {
			t.Fatalf("goccy %s: %v", data, err)
		}
		if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &viaJsoniter); err != nil {
			t.Fatalf("jsoniter %s: %v", data, err)
		}
		if diff := cmp.Diff(viaGoccy, got); diff != "" {
			t.Fatalf("goccy disagrees on %s (-goccy +jsonvalue):\n%s", data, diff)
		}
		if diff := cmp.Diff(viaJsoniter, got); diff != "" {
			t.Fatalf("jsoniter disagrees on %s (-jsoniter +jsonvalue):\n%s", data, diff)
		}

		// serialized output is valid JSON that decodes to the same values
		out, err := jsonvalue.Serialize(&v)
		if err != nil {
			t.Fatal(err)
		}
		if !gjson.ValidBytes(out) {
			t.Fatalf("gjson rejects %s", out)
		}
		var again any
		if err := gojson.Unmarshal(out, &again); err != nil {
			t.Fatalf("goccy rejects %s: %v", out, err)
		}
		if diff := cmp.Diff(viaGoccy, again); diff != "" {
			t.Fatalf("serialized %s (-input +output):\n%s", out, diff)
		}
	}
}

func TestOracle_PathLookups(t *testing.T) {
	data := []byte(`{"user":{"name":"Ann \"A\"","tags":["x","y"],"score":98.5},"ids":[3,1,2]}`)
	v := mustParse(t, string(data))

	user, _ := v.Get("user")
	name, _ := user.Get("name")
	want, err := jsonparser.GetString(data, "user", "name")
	if err != nil || name.AsString() != want {
		t.Fatalf("jsonparser name %q vs %q (%v)", want, name.AsString(), err)
	}
	score, _ := user.Get("score")
	if f, err := jsonparser.GetFloat(data, "user", "score"); err != nil || f != score.AsNumber() {
		t.Fatalf("jsonparser score %v vs %v", f, score.AsNumber())
	}

	ids, _ := v.Get("ids")
	for i, res := range gjson.GetBytes(data, "ids").Array() {
		id, _ := ids.Index(i)
		if res.Int() != id.AsInt64() {
			t.Fatalf("gjson ids.%d: %d vs %d", i, res.Int(), id.AsInt64())
		}
	}
	tags, _ := user.Get("tags")
	if n := gjson.GetBytes(data, "user.tags.#").Int(); int(n) != tags.Len() {
		t.Fatalf("gjson tag count %d vs %d", n, tags.Len())
	}
}

func benchDoc() []byte {
	r := rand.New(rand.NewSource(42))
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := 0; i < 200; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		genDoc(r, &buf, 3)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

func BenchmarkParse_jsonvalue(b *testing.B) {
	data := benchDoc()
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := jsonvalue.Parse(data); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse_goccy(b *testing.B) {
	data := benchDoc()
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var v any
		if err := gojson.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse_jsoniter(b *testing.B) {
	data := benchDoc()
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var v any
		if err := jsoniter.ConfigFastest.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTokenize_jsonvalue(b *testing.B) {
	data := benchDoc()
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := jsonvalue.Tokenize(data); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkWalk_jsonparser(b *testing.B) {
	data := benchDoc()
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		n := 0
		_, err := jsonparser.ArrayEach(data, func([]byte, jsonparser.ValueType, int, error) { n++ })
		if err != nil || n != 200 {
			b.Fatal(n, err)
		}
	}
}

func BenchmarkValid_gjson(b *testing.B) {
	data := benchDoc()
	b.SetBytes(int64(len(data)))
	for i := 0; i < b.N; i++ {
		if !gjson.ValidBytes(data) {
			b.Fatal("invalid")
		}
	}
}

func BenchmarkSerialize_jsonvalue(b *testing.B) {
	v, err := jsonvalue.Parse(benchDoc())
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	var out []byte
	for i := 0; i < b.N; i++ {
		if out, err = jsonvalue.AppendSerialize(out[:0], &v, jsonvalue.EncodeOpt{}); err != nil {
			b.Fatal(err)
		}
	}
	b.SetBytes(int64(len(out)))
}
