// Copyright 2025 tasteful Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tfidf builds dense TF-IDF document-term matrices over small
// corpora of feature text, such as pipe-joined genre labels.
package tfidf

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/juju/errors"
	"gonum.org/v1/gonum/floats"
)

// tokenPattern matches words of two or more characters.
var tokenPattern = regexp.MustCompile(`[a-zA-Z0-9_]{2,}`)

// Matrix is a dense TF-IDF document-term matrix. Rows are aligned with the
// fitted document order and l2-normalized. Columns are aligned with Terms().
type Matrix struct {
	terms []string
	index map[string]int
	rows  [][]float64
}

// Fit builds a TF-IDF matrix over the given documents. Documents are
// lowercased, tokenized and stripped of english stop words. The inverse
// document frequency is smoothed:
//
//	idf(t) = ln((1+n)/(1+df(t))) + 1
//
// Fit fails if there are no documents or the vocabulary ends up empty.
func Fit(documents []string) (*Matrix, error) {
	if len(documents) == 0 {
		return nil, errors.New("no documents to vectorize")
	}
	// count terms per document and document frequencies
	counts := make([]map[string]int, len(documents))
	frequencies := make(map[string]int)
	for i, document := range documents {
		counts[i] = make(map[string]int)
		for _, token := range tokenize(document) {
			counts[i][token]++
		}
		for term := range counts[i] {
			frequencies[term]++
		}
	}
	if len(frequencies) == 0 {
		return nil, errors.New("empty vocabulary: documents only contain stop words")
	}
	// freeze the vocabulary in lexicographic order
	m := &Matrix{
		terms: make([]string, 0, len(frequencies)),
		index: make(map[string]int, len(frequencies)),
	}
	for term := range frequencies {
		m.terms = append(m.terms, term)
	}
	sort.Strings(m.terms)
	for i, term := range m.terms {
		m.index[term] = i
	}
	idf := make([]float64, len(m.terms))
	for i, term := range m.terms {
		idf[i] = math.Log(float64(1+len(documents))/float64(1+frequencies[term])) + 1
	}
	// weight and l2-normalize rows
	m.rows = make([][]float64, len(documents))
	for i := range documents {
		row := make([]float64, len(m.terms))
		for term, count := range counts[i] {
			j := m.index[term]
			row[j] = float64(count) * idf[j]
		}
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
		m.rows[i] = row
	}
	return m, nil
}

// NumDocuments returns the number of fitted documents.
func (m *Matrix) NumDocuments() int {
	return len(m.rows)
}

// NumTerms returns the vocabulary size.
func (m *Matrix) NumTerms() int {
	return len(m.terms)
}

// Terms returns the vocabulary in column order.
func (m *Matrix) Terms() []string {
	return m.terms
}

// Row returns the TF-IDF vector of the i-th document.
func (m *Matrix) Row(i int) []float64 {
	return m.rows[i]
}

// Weight returns the TF-IDF weight of a term in the i-th document. Unknown
// terms weigh zero.
func (m *Matrix) Weight(i int, term string) float64 {
	j, exist := m.index[term]
	if !exist {
		return 0
	}
	return m.rows[i][j]
}

func tokenize(document string) []string {
	var tokens []string
	for _, token := range tokenPattern.FindAllString(strings.ToLower(document), -1) {
		if !stopWords[token] {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
