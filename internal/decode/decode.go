// Package decode turns raw API payloads into normalized observations.
//
// Payloads arrive in two containers: a bare XML market document, or a ZIP
// archive of several of them (imbalance endpoints do this). The container
// is detected from the payload's leading bytes; the Content-Type header
// the API sends is wrong often enough that it is deliberately ignored.
package decode

import (
	"archive/zip"
	"bytes"
	"io"

	"entsogo/internal/models"
)

// Archives are recognized by the two-byte signature prefix: entry-less
// archives start with the end-of-central-directory record PK\x05\x06, not
// the local-file-header PK\x03\x04, and must still be treated as archives
// so that a zero-entry response fails instead of parsing as XML.
var zipMagic = []byte{'P', 'K'}

// Documents splits a raw payload into its document payloads: every entry
// of a ZIP archive, or the payload itself when it is not an archive.
func Documents(payload *models.RawPayload) ([][]byte, error) {
	if !bytes.HasPrefix(payload.Body, zipMagic) {
		return [][]byte{payload.Body}, nil
	}

	reader, err := zip.NewReader(bytes.NewReader(payload.Body), int64(len(payload.Body)))
	if err != nil {
		return nil, &models.APIResponseError{
			Msg:     "payload has ZIP magic bytes but is not a readable archive",
			Snippet: models.Snippet(payload.Body),
		}
	}

	var docs [][]byte
	for _, entry := range reader.File {
		rc, err := entry.Open()
		if err != nil {
			return nil, &models.APIResponseError{Msg: "cannot open archive entry " + entry.Name}
		}
		body, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, &models.APIResponseError{Msg: "cannot read archive entry " + entry.Name}
		}
		docs = append(docs, body)
	}

	if len(docs) == 0 {
		return nil, &models.APIResponseError{Msg: "archive contains no documents"}
	}
	return docs, nil
}

// Parse decodes a raw payload end to end: container detection, then
// document parsing, concatenating observations across archive entries.
// An archive where no entry parses is a decode failure, not an empty
// result.
func Parse(payload *models.RawPayload) ([]models.Observation, error) {
	docs, err := Documents(payload)
	if err != nil {
		return nil, err
	}

	var all []models.Observation
	var firstErr error
	parsed := 0
	for _, doc := range docs {
		obs, err := ParseDocument(doc)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		parsed++
		all = append(all, obs...)
	}

	if parsed == 0 {
		return nil, firstErr
	}
	return all, nil
}
