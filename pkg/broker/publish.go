package broker

import (
	"pipestat/pkg/api"
	"pipestat/pkg/events"
	"pipestat/pkg/util/context"

	"github.com/pkg/errors"
)

const (
	// DefaultExchange is the exchange snapshots are published to when none is configured
	DefaultExchange = "pipestat"

	// RoutingKeySnapshot is the routing key of SNAPSHOT events
	RoutingKeySnapshot = "snapshot"

	routingKeyUnhealthyPrefix = "unhealthy."
)

// RoutingKeyUnhealthy returns the routing key of the UNHEALTHY events of the given pipeline
func RoutingKeyUnhealthy(pipelineID string) string {
	return routingKeyUnhealthyPrefix + pipelineID
}

// BindingKeyUnhealthy returns the binding key matching UNHEALTHY events of the given pipelines, of every pipeline if none given
func BindingKeyUnhealthy(pipelineID string) string {
	if pipelineID == "" {
		return routingKeyUnhealthyPrefix + "#"
	}
	return RoutingKeyUnhealthy(pipelineID)
}

// PublishSnapshot publishes a SNAPSHOT event carrying the whole snapshot,
// then an UNHEALTHY event for each pipeline whose health status is not HEALTHY, in snapshot order.
// It stops at the first publishing failure.
func PublishSnapshot(ctx context.Context, b Broker, exchange string, snap api.Snapshot) error {
	ctx = context.WithRunID(ctx, snap.RunID)
	evt := events.Event{
		Type:          events.TypeSnapshot,
		RunID:         snap.RunID,
		CorrelationID: ctx.CorrelationID(),
		Data:          snap,
		Time:          snap.QueryTime,
	}
	if err := b.Publish(ctx, evt, exchange, RoutingKeySnapshot); err != nil {
		return errors.Wrap(err, "cannot publish snapshot")
	}

	unhealthy := 0
	for _, r := range snap.Pipelines {
		if r.IsHealthy() {
			continue
		}
		evt := events.Event{
			Type:          events.TypeUnhealthy,
			RunID:         snap.RunID,
			PipelineID:    r.ID,
			CorrelationID: ctx.CorrelationID(),
			Data:          r,
			Time:          snap.QueryTime,
		}
		if err := b.Publish(context.WithPipelineID(ctx, r.ID), evt, exchange, RoutingKeyUnhealthy(r.ID)); err != nil {
			return errors.Wrapf(err, "cannot publish health of pipeline %s", r.ID)
		}
		unhealthy++
	}
	ctx.Logger().Debugf("snapshot published to exchange %s with %d unhealthy pipelines", exchange, unhealthy)
	return nil
}
