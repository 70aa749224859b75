package util

import (
	"bytes"
	"encoding/binary"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"

	"github.com/klauspost/compress/zstd"
)

// shared coders, EncodeAll/DecodeAll are safe for concurrent use
var (
	zstd_encoder, _ = zstd.NewWriter(nil)
	zstd_decoder, _ = zstd.NewReader(nil)
)

//*******************************************
// binary buffers
//*******************************************

func NewBufferReader(data []byte) BufferReader {
	reader := bytes.NewReader(data)
	return BufferReader{
		reader: reader,
	}
}

type BufferReader struct {
	reader *bytes.Reader
}

func Read[T any](reader BufferReader) (T, error) {
	var value T
	err := binary.Read(reader.reader, binary.LittleEndian, &value)
	return value, err
}

func ReadArray[T any](reader BufferReader) (Array[T], error) {
	var size int32
	if err := binary.Read(reader.reader, binary.LittleEndian, &size); err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, fmt.Errorf("invalid array size %v", size)
	}
	value := NewArray[T](int(size))
	if err := binary.Read(reader.reader, binary.LittleEndian, &value); err != nil {
		return nil, err
	}
	return value, nil
}

func NewBufferWriter() BufferWriter {
	buffer := bytes.Buffer{}
	return BufferWriter{
		buffer: &buffer,
	}
}

type BufferWriter struct {
	buffer *bytes.Buffer
}

func (self *BufferWriter) Bytes() []byte {
	return self.buffer.Bytes()
}

func Write[T any](writer BufferWriter, value T) error {
	return binary.Write(writer.buffer, binary.LittleEndian, value)
}
func WriteArray[T any](writer BufferWriter, value Array[T]) error {
	if err := binary.Write(writer.buffer, binary.LittleEndian, int32(value.Length())); err != nil {
		return err
	}
	return binary.Write(writer.buffer, binary.LittleEndian, value)
}

//*******************************************
// files
//*******************************************

// WriteArrayToFile stores the array as a zstd-compressed little-endian blob.
func WriteArrayToFile[T any](value Array[T], file string) error {
	writer := NewBufferWriter()
	if err := WriteArray[T](writer, value); err != nil {
		return fmt.Errorf("encode %v: %w", file, err)
	}
	data := zstd_encoder.EncodeAll(writer.Bytes(), nil)
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return fmt.Errorf("write %v: %w", file, err)
	}
	return nil
}

func ReadArrayFromFile[T any](file string) (Array[T], error) {
	compressed, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %v: %w", file, err)
	}
	data, err := zstd_decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress %v: %w", file, err)
	}
	value, err := ReadArray[T](NewBufferReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %v: %w", file, err)
	}
	return value, nil
}

func WriteJSONToFile[T any](value T, file string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0o644)
}

func ReadJSONFromFile[T any](file string) (T, error) {
	var value T
	data, err := os.ReadFile(file)
	if err != nil {
		return value, fmt.Errorf("read %v: %w", file, err)
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, fmt.Errorf("decode %v: %w", file, err)
	}
	return value, nil
}

//*******************************************
// csv
//*******************************************

// ReadCSVFromFile maps the rows of a headered csv file onto the `csv`-tagged
// fields of T. Rows with a wrong field count are skipped, unparsable cells
// keep their zero value.
func ReadCSVFromFile[T any](filename string, delimiter rune) (func(yield func(T) bool), error) {
	rows, err := _ReadCSV[T](filename, delimiter, false)
	if err != nil {
		return nil, err
	}
	return func(yield func(T) bool) {
		for row, err := range rows {
			if err != nil {
				continue
			}
			if !yield(row) {
				break
			}
		}
	}, nil
}

// ReadCSVRowsFromFile works like ReadCSVFromFile but yields an error for
// every row that is malformed, holds an unparsable cell or a number that
// does not fit the field.
func ReadCSVRowsFromFile[T any](filename string, delimiter rune) (func(yield func(T, error) bool), error) {
	return _ReadCSV[T](filename, delimiter, true)
}

func _ReadCSV[T any](filename string, delimiter rune, strict bool) (func(yield func(T, error) bool), error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read %v: %w", filename, err)
	}
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %v: %w", filename, err)
	}
	name_row_mapping := NewDict[string, int](10)
	for i, name := range header {
		name_row_mapping[name] = i
	}

	var val T
	typ := reflect.TypeOf(val)
	num_field := typ.NumField()
	fields := NewList[Triple[int, int, reflect.Kind]](num_field)
	for i := 0; i < num_field; i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("csv")
		if tag == "" {
			continue
		}
		if !name_row_mapping.ContainsKey(tag) {
			continue
		}
		row := name_row_mapping[tag]
		switch field.Type.Kind() {
		case reflect.Bool:
			fields.Add(MakeTriple(i, row, reflect.Bool))
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			fields.Add(MakeTriple(i, row, reflect.Int))
		case reflect.Float32, reflect.Float64:
			fields.Add(MakeTriple(i, row, reflect.Float64))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			fields.Add(MakeTriple(i, row, reflect.Uint))
		case reflect.String:
			fields.Add(MakeTriple(i, row, reflect.String))
		}
	}

	return func(yield func(T, error) bool) {
		var zero T
		for {
			record, err := reader.Read()
			if err == io.EOF {
				break
			} else if err != nil {
				if !yield(zero, fmt.Errorf("%v: %w", filename, err)) {
					break
				}
				continue
			}
			t := reflect.New(typ).Elem()
			var row_err error
			for _, field := range fields {
				value := record[field.B]
				if value == "" {
					continue
				}
				err := _SetCSVField(t.Field(field.A), field.C, value)
				if err != nil && strict {
					line, _ := reader.FieldPos(field.B)
					row_err = fmt.Errorf("%v line %v, column %q: %w", filename, line, header[field.B], err)
					break
				}
			}
			if row_err != nil {
				if !yield(zero, row_err) {
					break
				}
				continue
			}
			if !yield(t.Interface().(T), nil) {
				break
			}
		}
	}, nil
}

// _SetCSVField parses value into f. On error f keeps its zero value.
func _SetCSVField(f reflect.Value, kind reflect.Kind, value string) error {
	switch kind {
	case reflect.Bool:
		num, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		f.SetBool(num)
	case reflect.Int:
		num, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		if f.OverflowInt(num) {
			return fmt.Errorf("value %v overflows %v", value, f.Type())
		}
		f.SetInt(num)
	case reflect.Uint:
		num, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		if f.OverflowUint(num) {
			return fmt.Errorf("value %v overflows %v", value, f.Type())
		}
		f.SetUint(num)
	case reflect.Float64:
		num, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		if f.OverflowFloat(num) {
			return fmt.Errorf("value %v overflows %v", value, f.Type())
		}
		f.SetFloat(num)
	case reflect.String:
		f.SetString(value)
	}
	return nil
}
