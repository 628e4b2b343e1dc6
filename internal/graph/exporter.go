package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rohankatakam/codeinsight/internal/config"
	"github.com/rohankatakam/codeinsight/internal/errors"
)

// Summary counts what an export changed
type Summary struct {
	Source               string `json:"source" yaml:"source"`
	Statements           int    `json:"statements" yaml:"statements"`
	NodesCreated         int    `json:"nodes_created" yaml:"nodes_created"`
	NodesDeleted         int    `json:"nodes_deleted" yaml:"nodes_deleted"`
	RelationshipsCreated int    `json:"relationships_created" yaml:"relationships_created"`
	RelationshipsDeleted int    `json:"relationships_deleted" yaml:"relationships_deleted"`
	PropertiesSet        int    `json:"properties_set" yaml:"properties_set"`
	TotalSources         int    `json:"total_sources,omitempty" yaml:"total_sources,omitempty"` // graph-wide, filled by callers
}

func (s *Summary) add(c neo4j.Counters) {
	s.NodesCreated += c.NodesCreated()
	s.NodesDeleted += c.NodesDeleted()
	s.RelationshipsCreated += c.RelationshipsCreated()
	s.RelationshipsDeleted += c.RelationshipsDeleted()
	s.PropertiesSet += c.PropertiesSet()
}

// Exporter writes documents to a Neo4j database
type Exporter struct {
	driver   neo4j.DriverWithContext
	database string
	batch    BatchConfig
	logger   *slog.Logger
}

// NewExporter connects to Neo4j and verifies connectivity before returning
func NewExporter(ctx context.Context, cfg config.GraphConfig, batch BatchConfig, logger *slog.Logger) (*Exporter, error) {
	if cfg.Neo4jURI == "" || cfg.Neo4jUser == "" || cfg.Neo4jPassword == "" {
		return nil, errors.ConfigErrorf("neo4j credentials missing: uri=%q user=%q", cfg.Neo4jURI, cfg.Neo4jUser)
	}
	if logger == nil {
		logger = slog.Default()
	}
	database := cfg.Database
	if database == "" {
		database = "neo4j"
	}

	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
		func(c *neo4j.Config) {
			c.MaxConnectionPoolSize = 10
			c.ConnectionAcquisitionTimeout = 30 * time.Second
			c.SocketConnectTimeout = 5 * time.Second
			c.SocketKeepalive = true
		})
	if err != nil {
		return nil, errors.NetworkError(err, "failed to create neo4j driver")
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, errors.NetworkError(err, fmt.Sprintf("failed to connect to neo4j at %s", cfg.Neo4jURI))
	}

	logger = logger.With("component", "graph")
	logger.Info("neo4j connected", "uri", cfg.Neo4jURI, "database", database)

	return &Exporter{
		driver:   driver,
		database: database,
		batch:    batch.withDefaults(),
		logger:   logger,
	}, nil
}

// Export replaces the document's subgraph in a single write transaction
func (e *Exporter) Export(ctx context.Context, doc Document) (*Summary, error) {
	stmts, err := BuildStatements(doc, e.batch)
	if err != nil {
		return nil, errors.ValidationError(err.Error())
	}

	session := e.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: e.database})
	defer session.Close(ctx)

	start := time.Now()
	summary := &Summary{Source: doc.Source, Statements: len(stmts)}

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// retries re-run the whole function
		*summary = Summary{Source: doc.Source, Statements: len(stmts)}
		for i, stmt := range stmts {
			res, err := tx.Run(ctx, stmt.Query, stmt.Params)
			if err != nil {
				return nil, fmt.Errorf("statement %d failed: %w", i, err)
			}
			rs, err := res.Consume(ctx)
			if err != nil {
				return nil, fmt.Errorf("statement %d failed: %w", i, err)
			}
			summary.add(rs.Counters())
		}
		return nil, nil
	}, neo4j.WithTxTimeout(e.batch.TxTimeout), neo4j.WithTxMetadata(map[string]any{
		"operation": "export",
		"source":    doc.Source,
	}))
	if err != nil {
		return nil, errors.DatabaseErrorf(err, "export %s", doc.Source)
	}

	e.logger.Info("exported analysis graph",
		"source", doc.Source,
		"statements", summary.Statements,
		"nodes_created", summary.NodesCreated,
		"relationships_created", summary.RelationshipsCreated,
		"duration", time.Since(start))
	return summary, nil
}

// CountSources returns how many sources the graph holds
func (e *Exporter) CountSources(ctx context.Context) (int, error) {
	result, err := neo4j.ExecuteQuery(ctx, e.driver,
		"MATCH (s:Source) RETURN count(s) AS count",
		nil,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(e.database),
		neo4j.ExecuteQueryWithReadersRouting())
	if err != nil {
		return 0, errors.DatabaseError(err, "count sources")
	}
	if len(result.Records) == 0 {
		return 0, nil
	}

	count, ok := result.Records[0].Get("count")
	if !ok {
		return 0, errors.InternalError("source count query returned no count")
	}
	n, ok := count.(int64)
	if !ok {
		return 0, errors.InternalErrorf("unexpected type for count: %T", count)
	}
	return int(n), nil
}

// HealthCheck verifies Neo4j connectivity
func (e *Exporter) HealthCheck(ctx context.Context) error {
	if err := e.driver.VerifyConnectivity(ctx); err != nil {
		return errors.NetworkError(err, "neo4j health check failed")
	}
	return nil
}

// Close closes the driver
func (e *Exporter) Close(ctx context.Context) error {
	return e.driver.Close(ctx)
}
