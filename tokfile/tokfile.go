// Package tokfile implements the lossless tokenised binary line format
// (spec.md section 4.2): a token stream round-trips byte-for-byte through
// encode/decode, and the tag space is append-only so files written by an
// older compiler always decode.
//
// Grounded on the teacher's encoder package: fixed-width word emission via
// encoding/binary with an explicit byte order, one write/read pair per
// payload shape, generalised from instruction words to token payloads.
package tokfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/stevewpalmer/jcom/token"
)

// tag is the on-disk discriminant for a token's payload shape. Distinct
// from token.Type: several token types share a payload encoding (all
// punctuation/keyword tokens carry only their Type and position).
type tag byte

const (
	tagSimple tag = iota // Type + Pos only (punctuation, keywords, EOL, SPACE)
	tagText               // Type + Pos + one length-prefixed UTF-8 string (Identifier, StringLit, Comment)
	tagInt                 // Type + Pos + int32 (IntegerLit)
	tagFloat               // Type + Pos + float32 (FloatLit)
	tagError               // Type + Pos + two length-prefixed strings (ErrorTok: message, offending text)
)

var order = binary.LittleEndian

func tagFor(t token.Token) tag {
	switch t.Type {
	case token.Identifier, token.StringLit, token.Comment:
		return tagText
	case token.IntegerLit:
		return tagInt
	case token.FloatLit:
		return tagFloat
	case token.ErrorTok:
		return tagError
	default:
		return tagSimple
	}
}

func writeString(w io.Writer, s string) error {
	b := []byte(s)
	if err := binary.Write(w, order, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, order, &n); err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}

// EncodeToken appends one token's on-disk encoding to w.
func EncodeToken(w io.Writer, t token.Token) error {
	tg := tagFor(t)
	if err := binary.Write(w, order, byte(tg)); err != nil {
		return err
	}
	if err := binary.Write(w, order, int32(t.Type)); err != nil {
		return err
	}
	if err := binary.Write(w, order, int32(t.Pos.Line)); err != nil {
		return err
	}
	if err := binary.Write(w, order, int32(t.Pos.Column)); err != nil {
		return err
	}
	switch tg {
	case tagText:
		return writeString(w, t.Literal)
	case tagInt:
		return binary.Write(w, order, t.IVal)
	case tagFloat:
		return binary.Write(w, order, t.FVal)
	case tagError:
		if err := writeString(w, t.Literal); err != nil {
			return err
		}
		return writeString(w, t.Text)
	default:
		return nil
	}
}

// DecodeToken reads one token from r. io.EOF (unwrapped) signals a clean
// end of stream at a token boundary.
func DecodeToken(r io.Reader, filename string) (token.Token, error) {
	var tg byte
	if err := binary.Read(r, order, &tg); err != nil {
		return token.Token{}, err
	}
	var typ, line, col int32
	if err := binary.Read(r, order, &typ); err != nil {
		return token.Token{}, unexpectedEOF(err)
	}
	if err := binary.Read(r, order, &line); err != nil {
		return token.Token{}, unexpectedEOF(err)
	}
	if err := binary.Read(r, order, &col); err != nil {
		return token.Token{}, unexpectedEOF(err)
	}
	t := token.Token{
		Type: token.Type(typ),
		Pos:  token.Position{Filename: filename, Line: int(line), Column: int(col)},
	}
	switch tag(tg) {
	case tagText:
		s, err := readString(r)
		if err != nil {
			return token.Token{}, unexpectedEOF(err)
		}
		t.Literal = s
	case tagInt:
		if err := binary.Read(r, order, &t.IVal); err != nil {
			return token.Token{}, unexpectedEOF(err)
		}
	case tagFloat:
		if err := binary.Read(r, order, &t.FVal); err != nil {
			return token.Token{}, unexpectedEOF(err)
		}
	case tagError:
		msg, err := readString(r)
		if err != nil {
			return token.Token{}, unexpectedEOF(err)
		}
		text, err := readString(r)
		if err != nil {
			return token.Token{}, unexpectedEOF(err)
		}
		t.Literal = msg
		t.Text = text
	case tagSimple:
		// nothing further
	default:
		return token.Token{}, fmt.Errorf("tokfile: unknown tag %d", tg)
	}
	return t, nil
}

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// EncodeLine writes a complete line's token stream (including its
// terminating EOL token) to w.
func EncodeLine(w io.Writer, toks []token.Token) error {
	for _, t := range toks {
		if err := EncodeToken(w, t); err != nil {
			return err
		}
	}
	return nil
}

// DecodeLine reads tokens from r until an EOL token is read (inclusive),
// or returns io.EOF if r is exhausted before any token is read.
func DecodeLine(r io.Reader, filename string) ([]token.Token, error) {
	var toks []token.Token
	for {
		t, err := DecodeToken(r, filename)
		if err != nil {
			if err == io.EOF && len(toks) > 0 {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		toks = append(toks, t)
		if t.Type == token.EOL {
			return toks, nil
		}
	}
}

// DecodeAll reads every line's token stream from r until EOF.
func DecodeAll(r io.Reader, filename string) ([][]token.Token, error) {
	br := bufio.NewReader(r)
	var lines [][]token.Token
	for {
		toks, err := DecodeLine(br, filename)
		if err != nil {
			if err == io.EOF {
				return lines, nil
			}
			return nil, err
		}
		lines = append(lines, toks)
	}
}
