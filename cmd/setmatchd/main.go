package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mycok/setmatch/cache"
	"github.com/mycok/setmatch/oaiset"
	"github.com/mycok/setmatch/percolator/es"
	mempercolator "github.com/mycok/setmatch/percolator/memory"
	"github.com/mycok/setmatch/records"
	"github.com/mycok/setmatch/service"
	"github.com/mycok/setmatch/service/syncer"
	"github.com/mycok/setmatch/setstore/cdb"
	memstore "github.com/mycok/setmatch/setstore/memory"
)

const (
	appName = "setmatchd"
	appSHA  = "compiled-and-deployed-at"
)

func main() {
	host, _ := os.Hostname()
	// Instantiate a root logger that will be passed to all services.
	rootLogger := logrus.New()
	logger := rootLogger.WithFields(logrus.Fields{
		"app":  appName,
		"SHA":  appSHA,
		"host": host,
	})

	svcGroup, err := configureServices(logger)
	if err != nil {
		logger.WithField("err", err).Error("shutting down due to an error")

		return
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	// Launch a separate process to listen and respond to os signals
	// and trigger a graceful shutdown.
	go func() {
		signalChan := make(chan os.Signal, 1)
		signal.Notify(signalChan, syscall.SIGINT, syscall.SIGHUP)

		select {
		case s := <-signalChan:
			logger.WithField("signal", s.String()).Info("shutting down due to os signal")
			// Cancel context, this signals all services to return since they all
			// share this same context.
			cancelFn()
		case <-ctx.Done():
		}
	}()

	if err := svcGroup.Execute(ctx); err != nil {
		logger.WithField("err", err).Error("shutting down due to an error")

		return
	}

	// Shutdown due to context cancellation.
	logger.Info("shutdown complete")
}

func configureServices(logger *logrus.Entry) (service.Group, error) {
	var syncerConfig syncer.Config

	flag.DurationVar(
		&syncerConfig.SyncInterval, "sync-interval",
		5*time.Minute,
		"Time between subsequent percolator reconciliation passes",
	)

	setStoreURI := flag.String(
		"set-store-uri", "in-memory://",
		"URI for connecting to the set definition store."+
			" [supported URI's: in-memory://, postgresql://user@host:26257/sets?sslmode=disable]",
	)
	matchEngineURI := flag.String(
		"match-engine-uri", "in-memory://",
		"URI for connecting to the percolation engine."+
			" [supported URI's: in-memory://, es://node1:9200,...,nodeN:9200]",
	)
	engineProfile := flag.String(
		"es-profile", "side-index",
		"The percolator storage layout of the engine version in use."+
			" Supported values are 'side-index' (ES 7+) and 'inline'",
	)
	syncRefresh := flag.Bool(
		"sync-refresh", false,
		"Make percolator writes visible to matching before returning."+
			" [intended for tests and low-volume deployments]",
	)
	contentIndices := flag.String(
		"content-indices", "records-record-v1",
		"Comma-separated list of content indices whose percolator"+
			" indices mirror the set definitions",
	)
	recordIndexPrefix := flag.String(
		"record-index-prefix", "records",
		"Prefix prepended to a record's source name to derive its"+
			" content index. An empty prefix routes to the source name as is",
	)

	flag.Parse()

	// Retrieve suitable set store and query registry implementations and
	// plug them into service configurations.
	setStore, err := getSetStore(*setStoreURI, logger)
	if err != nil {
		return nil, err
	}

	registry, err := getQueryRegistry(
		*matchEngineURI, *engineProfile, *syncRefresh,
		setStore, *recordIndexPrefix, logger,
	)
	if err != nil {
		return nil, err
	}

	var svc service.Service
	var svcGrp service.Group

	syncerConfig.SetsAPI = setStore
	syncerConfig.RegistryAPI = registry
	syncerConfig.ContentIndices = strings.Split(*contentIndices, ",")
	syncerConfig.Logger = logger.WithField("service", "percolator-syncer")
	if svc, err = syncer.New(syncerConfig); err == nil {
		svcGrp = append(svcGrp, svc)
	} else {
		return nil, err
	}

	return svcGrp, nil
}

func getSetStore(setStoreURI string, logger *logrus.Entry) (oaiset.SetStore, error) {
	if setStoreURI == "" {
		return nil, fmt.Errorf("set store URI must be specified with --set-store-uri")
	}

	url, err := url.Parse(setStoreURI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse set store URI: %w", err)
	}

	switch url.Scheme {
	case "in-memory":
		logger.Info("using in-memory set store")

		return memstore.NewInMemorySetStore(), nil
	case "postgresql":
		logger.Info("using CDB set store")

		return cdb.NewCockroachDBSetStore(setStoreURI)
	default:
		return nil, fmt.Errorf("unsupported set store URI scheme: %q", url.Scheme)
	}
}

func getQueryRegistry(
	matchEngineURI, engineProfile string, syncRefresh bool,
	setStore oaiset.SetStore, recordIndexPrefix string, logger *logrus.Entry,
) (oaiset.Registry, error) {

	if matchEngineURI == "" {
		return nil, fmt.Errorf("match engine URI must be specified with --match-engine-uri")
	}

	url, err := url.Parse(matchEngineURI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse match engine URI: %w", err)
	}

	switch url.Scheme {
	case "in-memory":
		logger.Info("using in-memory percolation engine")

		return mempercolator.NewInMemoryPercolator(mempercolator.Config{
			Resolver:   records.NewDocBuilder(recordIndexPrefix),
			Bindings:   records.StaticBindings{},
			StaticSets: cache.New(setStore),
			Logger:     logger.WithField("component", "in-memory-percolator"),
		})
	case "es":
		profile, err := getEngineProfile(engineProfile)
		if err != nil {
			return nil, err
		}

		nodes := strings.Split(url.Host, ",")
		for i := 0; i < len(nodes); i++ {
			nodes[i] = "http://" + nodes[i]
		}
		logger.Info("using ES percolation engine")

		manager, err := es.NewIndexManager(nodes, profile, nil)
		if err != nil {
			return nil, err
		}

		return es.NewQueryRegistry(manager, syncRefresh), nil
	default:
		return nil, fmt.Errorf("unsupported match engine URI scheme: %q", url.Scheme)
	}
}

func getEngineProfile(engineProfile string) (es.Profile, error) {
	switch engineProfile {
	case "side-index":
		return es.ProfileSideIndex, nil
	case "inline":
		return es.ProfileInline, nil
	default:
		return 0, fmt.Errorf("unsupported es profile: %q", engineProfile)
	}
}
