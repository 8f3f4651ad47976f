package multinet

import (
	"context"
	"fmt"
	"net/http"

	"github.com/multinet-app/multinet-go/s3upload"
)

// UploadFieldID names the server-side file field uploads are stored in
const UploadFieldID = "api.Upload.blob"

// FileType is the format of an uploaded table
type FileType string

const (
	FileTypeCSV  FileType = "csv"
	FileTypeJSON FileType = "json"
)

// UploadTableOptions describes a table upload
type UploadTableOptions struct {
	Data        *s3upload.File
	EdgeTable   bool
	ColumnTypes ColumnTypes
	// FileType defaults to csv
	FileType FileType
	// Delimiter and QuoteChar only apply to csv; empty lets the server sniff
	Delimiter string
	QuoteChar string
}

type csvUploadBody struct {
	FieldValue string      `json:"field_value"`
	Edge       bool        `json:"edge"`
	TableName  string      `json:"table_name"`
	Columns    ColumnTypes `json:"columns"`
	Delimiter  string      `json:"delimiter,omitempty"`
	QuoteChar  string      `json:"quotechar,omitempty"`
}

type jsonTableUploadBody struct {
	FieldValue string      `json:"field_value"`
	Edge       bool        `json:"edge"`
	TableName  string      `json:"table_name"`
	Columns    ColumnTypes `json:"columns"`
}

type networkUploadBody struct {
	FieldValue  string      `json:"field_value"`
	NetworkName string      `json:"network_name"`
	NodeColumns ColumnTypes `json:"node_columns"`
	EdgeColumns ColumnTypes `json:"edge_columns"`
}

// copyColumns returns a non-nil copy so the body always carries an object
func copyColumns(columns ColumnTypes) ColumnTypes {
	out := make(ColumnTypes, len(columns))
	for k, v := range columns {
		out[k] = v
	}
	return out
}

// UploadTable uploads a file through the presigned upload flow and asks the
// server to ingest it as a table. The returned Upload tracks ingestion.
func (c *Client) UploadTable(ctx context.Context, workspace, table string, opts UploadTableOptions) (*Upload, error) {
	if err := requireArgs("workspace", workspace, "table", table); err != nil {
		return nil, err
	}
	if opts.Data == nil {
		return nil, fmt.Errorf("%w: upload data is required", ErrInvalidArgument)
	}

	var (
		path string
		body func(fieldValue string) any
	)
	switch opts.FileType {
	case FileTypeCSV, "":
		path = endpoint("workspaces", workspace, "uploads", "csv")
		body = func(fieldValue string) any {
			return csvUploadBody{
				FieldValue: fieldValue,
				Edge:       opts.EdgeTable,
				TableName:  table,
				Columns:    copyColumns(opts.ColumnTypes),
				Delimiter:  opts.Delimiter,
				QuoteChar:  opts.QuoteChar,
			}
		}
	case FileTypeJSON:
		path = endpoint("workspaces", workspace, "uploads", "json_table")
		body = func(fieldValue string) any {
			return jsonTableUploadBody{
				FieldValue: fieldValue,
				Edge:       opts.EdgeTable,
				TableName:  table,
				Columns:    copyColumns(opts.ColumnTypes),
			}
		}
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q", ErrInvalidArgument, opts.FileType)
	}

	fieldValue, err := c.uploader.Upload(ctx, UploadFieldID, opts.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", opts.Data.Name, err)
	}

	upload, err := send[Upload](ctx, c, http.MethodPost, path, body(fieldValue))
	if err != nil {
		return nil, fmt.Errorf("failed to start ingestion of table %s/%s: %w", workspace, table, err)
	}

	c.logger.Info().
		Str("workspace", workspace).
		Str("table", table).
		Int("upload_id", upload.ID).
		Msg("Table upload accepted")
	return upload, nil
}

// UploadNetwork uploads a JSON network document and asks the server to
// ingest it as a network with its node and edge tables.
func (c *Client) UploadNetwork(ctx context.Context, workspace, network string, data *s3upload.File, nodeColumns, edgeColumns ColumnTypes) (*Upload, error) {
	if err := requireArgs("workspace", workspace, "network", network); err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%w: upload data is required", ErrInvalidArgument)
	}

	fieldValue, err := c.uploader.Upload(ctx, UploadFieldID, data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", data.Name, err)
	}

	body := networkUploadBody{
		FieldValue:  fieldValue,
		NetworkName: network,
		NodeColumns: copyColumns(nodeColumns),
		EdgeColumns: copyColumns(edgeColumns),
	}
	upload, err := send[Upload](ctx, c, http.MethodPost, endpoint("workspaces", workspace, "uploads", "json_network"), body)
	if err != nil {
		return nil, fmt.Errorf("failed to start ingestion of network %s/%s: %w", workspace, network, err)
	}

	c.logger.Info().
		Str("workspace", workspace).
		Str("network", network).
		Int("upload_id", upload.ID).
		Msg("Network upload accepted")
	return upload, nil
}
