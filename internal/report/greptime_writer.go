package report

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"lorasim/internal/metrics"
)

const writeTimeout = 10 * time.Second

// greptimeClient is the subset of *greptime.Client used by the writer.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// Tables names the GreptimeDB tables the writer fills.
type Tables struct {
	Summary  string
	Delays   string
	Progress string
}

// DefaultTables returns the table names used when none are configured.
func DefaultTables() Tables {
	return Tables{
		Summary:  "lorasim_run_summary",
		Delays:   "lorasim_packet_delays",
		Progress: "lorasim_progress",
	}
}

// GreptimeDBWriter writes run summaries, per-packet delays and progress
// snapshots to GreptimeDB via the ingester client.
type GreptimeDBWriter struct {
	client greptimeClient
	runID  string
	tables Tables
	now    func() time.Time
}

// NewGreptimeDBWriter connects to endpoint (host or host:port).
func NewGreptimeDBWriter(endpoint, database, runID string, tables Tables) (*GreptimeDBWriter, error) {
	host, port := endpoint, 0
	if h, p, err := net.SplitHostPort(endpoint); err == nil {
		host = h
		if port, err = strconv.Atoi(p); err != nil {
			return nil, err
		}
	}
	cfg := greptime.NewConfig(host).WithDatabase(database)
	if port > 0 {
		cfg = cfg.WithPort(port)
	}
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return newGreptimeDBWriter(client, runID, tables), nil
}

func newGreptimeDBWriter(client greptimeClient, runID string, tables Tables) *GreptimeDBWriter {
	def := DefaultTables()
	if tables.Summary == "" {
		tables.Summary = def.Summary
	}
	if tables.Delays == "" {
		tables.Delays = def.Delays
	}
	if tables.Progress == "" {
		tables.Progress = def.Progress
	}
	return &GreptimeDBWriter{client: client, runID: runID, tables: tables, now: time.Now}
}

// WriteSummary inserts one summary row and one row per delivered packet.
func (w *GreptimeDBWriter) WriteSummary(s metrics.Summary) error {
	ts := w.now().UTC()

	sum, err := table.New(w.tables.Summary)
	if err != nil {
		return err
	}
	if err := addColumns(sum,
		tag("run_id", types.STRING),
		field("sent", types.INT64),
		field("received", types.INT64),
		field("lost", types.INT64),
		field("delivery_ratio", types.FLOAT64),
		field("average_delay_s", types.FLOAT64),
		field("duplicates", types.INT64),
		field("unmatched", types.INT64),
		field("negative_delays", types.INT64),
		field("unresolved", types.INT64),
	); err != nil {
		return err
	}
	if err := sum.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}
	if err := sum.AddRow(s.RunID, s.Sent, s.Received, s.Lost, s.DeliveryRatio, s.AverageDelay.Seconds(),
		s.Anomalies.Duplicates, s.Anomalies.Unmatched, s.Anomalies.NegativeDelays, int64(len(s.Unresolved)), ts); err != nil {
		return err
	}

	tables := []*table.Table{sum}
	if len(s.Delays) > 0 {
		delays, err := table.New(w.tables.Delays)
		if err != nil {
			return err
		}
		if err := addColumns(delays,
			tag("run_id", types.STRING),
			tag("packet", types.INT64),
			field("delay_s", types.FLOAT64),
		); err != nil {
			return err
		}
		if err := delays.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
			return err
		}
		for i, sec := range metrics.PerPacket(s.Delays) {
			if err := delays.AddRow(s.RunID, int64(i), sec, ts); err != nil {
				return err
			}
		}
		tables = append(tables, delays)
	}
	return w.write(tables...)
}

// WriteProgress inserts one progress row.
func (w *GreptimeDBWriter) WriteProgress(p metrics.Progress) error {
	tbl, err := table.New(w.tables.Progress)
	if err != nil {
		return err
	}
	if err := addColumns(tbl,
		tag("run_id", types.STRING),
		field("sim_time_s", types.FLOAT64),
		field("sent", types.INT64),
		field("received", types.INT64),
		field("pending", types.INT64),
		field("anomalies", types.INT64),
	); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}
	if err := tbl.AddRow(w.runID, p.SimTime.Seconds(), p.Counters.Sent, p.Counters.Received,
		int64(p.Pending), p.Anomalies.Total(), w.now().UTC()); err != nil {
		return err
	}
	return w.write(tbl)
}

func (w *GreptimeDBWriter) write(tables ...*table.Table) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if _, err := w.client.Write(ctx, tables...); err != nil {
		return fmt.Errorf("greptimedb write: %w", err)
	}
	return nil
}

type column struct {
	name  string
	typ   types.ColumnType
	isTag bool
}

func tag(name string, typ types.ColumnType) column   { return column{name: name, typ: typ, isTag: true} }
func field(name string, typ types.ColumnType) column { return column{name: name, typ: typ} }

func addColumns(tbl *table.Table, cols ...column) error {
	for _, c := range cols {
		var err error
		if c.isTag {
			err = tbl.AddTagColumn(c.name, c.typ)
		} else {
			err = tbl.AddFieldColumn(c.name, c.typ)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
