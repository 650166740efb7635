package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"charm.land/fantasy"

	"chinook-demo/internal/domain"
	"chinook-demo/internal/service/query"
)

// Tool names offered to the model.
const (
	ToolListTables = "sql_db_list_tables"
	ToolSchema     = "sql_db_schema"
	ToolQuery      = "sql_db_query"
)

// ListTablesInput takes no arguments.
type ListTablesInput struct{}

// SchemaInput names the tables to describe.
type SchemaInput struct {
	TableNames string `json:"table_names" description:"Comma-separated list of tables to describe, for example: Artist, Album"`
}

// QueryInput carries the SQL to run.
type QueryInput struct {
	Query string `json:"query" description:"A detailed and correct SQL query"`
}

// Toolkit holds the database capabilities the agent's tools call into.
type Toolkit struct {
	inspector domain.SchemaInspector
	executor  *query.Executor
}

// NewToolkit creates a Toolkit over the shared engine's inspector and the
// query executor.
func NewToolkit(inspector domain.SchemaInspector, executor *query.Executor) *Toolkit {
	return &Toolkit{inspector: inspector, executor: executor}
}

// ListTables returns the dataset's tables as a comma-separated list.
func (k *Toolkit) ListTables(ctx context.Context) (string, error) {
	tables, err := k.inspector.ListTables(ctx)
	if err != nil {
		return "", err
	}
	return strings.Join(tables, ", "), nil
}

// Schema describes each named table with its CREATE statement and sample
// rows. Any unknown table fails the whole call so the model can correct it.
func (k *Toolkit) Schema(ctx context.Context, tableNames string) (string, error) {
	var descs []string
	for _, name := range strings.Split(tableNames, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		desc, err := k.inspector.DescribeTable(ctx, name, SchemaSampleRows)
		if err != nil {
			return "", err
		}
		descs = append(descs, desc)
	}
	if len(descs) == 0 {
		return "", fmt.Errorf("table_names is required")
	}
	return strings.Join(descs, "\n\n"), nil
}

// Query runs sqlQuery through the executor and returns the tabular result
// as JSON.
func (k *Toolkit) Query(ctx context.Context, sqlQuery string) (string, error) {
	out, err := k.executor.Run(ctx, sqlQuery)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(out.Table)
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return string(b), nil
}

// agentTools wraps the toolkit as model tools. Tool failures are returned
// to the model as error text so it can retry.
func (k *Toolkit) agentTools() []fantasy.AgentTool {
	respond := func(text string, err error) (fantasy.ToolResponse, error) {
		if err != nil {
			return fantasy.NewTextErrorResponse("Error: " + err.Error()), nil
		}
		return fantasy.NewTextResponse(text), nil
	}

	return []fantasy.AgentTool{
		fantasy.NewAgentTool(
			ToolListTables,
			"Input is an empty string, output is a comma-separated list of tables in the database.",
			func(ctx context.Context, _ ListTablesInput, _ fantasy.ToolCall) (fantasy.ToolResponse, error) {
				return respond(k.ListTables(ctx))
			},
		),
		fantasy.NewAgentTool(
			ToolSchema,
			"Input to this tool is a comma-separated list of tables, output is the schema and sample rows for those tables. "+
				"Be sure that the tables actually exist by calling "+ToolListTables+" first!",
			func(ctx context.Context, in SchemaInput, _ fantasy.ToolCall) (fantasy.ToolResponse, error) {
				return respond(k.Schema(ctx, in.TableNames))
			},
		),
		fantasy.NewAgentTool(
			ToolQuery,
			"Input to this tool is a detailed and correct SQL query, output is a result from the database. "+
				"If the query is not correct, an error message will be returned. "+
				"If an error is returned, rewrite the query, check the query, and try again.",
			func(ctx context.Context, in QueryInput, _ fantasy.ToolCall) (fantasy.ToolResponse, error) {
				return respond(k.Query(ctx, in.Query))
			},
		),
	}
}
