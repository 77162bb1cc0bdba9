// Package ocrparse turns OCR text from a bank-statement screenshot into
// candidate transactions.
//
// The statement layout is a repeating four-line block:
//
//	Torsdag 07.08.25
//	Rema 1000
//	-111,00
//	Dagligvarer
//
// The fourth line is optional in practice, but the scanner always advances
// four lines past a header. Blocks with a different line count misalign every
// block after them.
package ocrparse

import (
	"strings"

	"github.com/rocjay1/statement-ocr/internal/classify"
	"github.com/rocjay1/statement-ocr/internal/models"
	"github.com/shopspring/decimal"
)

// recordStride is the number of source lines one block occupies.
const recordStride = 4

type state int

const (
	stateSeekHeader state = iota
	stateReadDescription
	stateReadAmountOrCategory1
	stateReadAmountOrCategory2
	stateEmit
)

// block accumulates one record while the segmenter walks its lines.
type block struct {
	start        int
	header       DateHeader
	description  string
	amountLine   string
	categoryLine string
}

type segmenter struct {
	lines  []string
	memory classify.Memory
	pos    int
	cur    block
	out    []models.ParsedTransaction
}

// Segment extracts candidate transactions from OCR text in input order.
// memory is only read. Malformed blocks are dropped; Segment never fails.
func Segment(text string, memory classify.Memory) []models.ParsedTransaction {
	s := &segmenter{lines: splitLines(text), memory: memory}
	s.run()
	return s.out
}

func (s *segmenter) run() {
	st := stateSeekHeader
	for {
		switch st {
		case stateSeekHeader:
			if s.pos >= len(s.lines) {
				return
			}
			header, ok := MatchDateHeader(s.lines[s.pos])
			if !ok {
				s.pos++
				continue
			}
			s.cur = block{start: s.pos, header: header}
			st = stateReadDescription

		case stateReadDescription:
			s.cur.description = s.line(s.cur.start + 1)
			st = stateReadAmountOrCategory1

		case stateReadAmountOrCategory1:
			s.cur.amountLine = s.line(s.cur.start + 2)
			st = stateReadAmountOrCategory2

		case stateReadAmountOrCategory2:
			next := s.line(s.cur.start + 3)
			if !hasAmount(s.cur.amountLine) && hasAmount(next) {
				// The amount slipped one line down; the line above it is a category hint.
				s.cur.categoryLine = s.cur.amountLine
				s.cur.amountLine = next
			} else {
				s.cur.categoryLine = next
			}
			st = stateEmit

		case stateEmit:
			if tx, ok := s.cur.resolve(s.memory); ok {
				s.out = append(s.out, tx)
			}
			s.pos = s.cur.start + recordStride
			st = stateSeekHeader
		}
	}
}

// line returns lines[i], or "" past the end.
func (s *segmenter) line(i int) string {
	if i < len(s.lines) {
		return s.lines[i]
	}
	return ""
}

// resolve builds the candidate, rejecting blocks without an amount or a
// description.
func (b block) resolve(memory classify.Memory) (models.ParsedTransaction, bool) {
	amount, ok := MatchAmount(b.amountLine)
	if !ok {
		amount = decimal.Zero
	}
	if amount.IsZero() || b.description == "" {
		return models.ParsedTransaction{}, false
	}

	return models.ParsedTransaction{
		Date:        b.header.ISODate(),
		Description: b.description,
		Amount:      amount,
		Category:    b.category(memory),
	}, true
}

// category classifies the non-numeric category line when there is one,
// otherwise the description. Memory and rules apply to either text.
func (b block) category(memory classify.Memory) models.Category {
	if b.categoryLine == "" || hasAmount(b.categoryLine) {
		return classify.Classify(b.description, memory)
	}
	return classify.Classify(b.categoryLine, memory)
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Notice is the informational outcome shown for a scan.
type Notice string

const (
	NoticeNone           Notice = ""
	NoticeNoText         Notice = "No text found in image"
	NoticeNoTransactions Notice = "No transactions could be extracted from the screenshot."
	NoticeOCRFailed      Notice = "Failed to read transactions from image."
)

// Assess tells an empty OCR result apart from text that held no records.
func Assess(text string, records int) Notice {
	switch {
	case strings.TrimSpace(text) == "":
		return NoticeNoText
	case records == 0:
		return NoticeNoTransactions
	default:
		return NoticeNone
	}
}
