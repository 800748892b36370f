// Package simulation wires topology, routing, allocation, routers,
// servers, traffic, the event queue and statistics into a runnable
// cycle-accurate simulation, per the driver sequence: drain Begin events,
// drain End events, advance servers, advance the queue.
package simulation

import (
	"fmt"
	"math/rand"

	"github.com/codefan-byte/caminos-tfg-sub000/allocator"
	"github.com/codefan-byte/caminos-tfg-sub000/buffer"
	"github.com/codefan-byte/caminos-tfg-sub000/event"
	"github.com/codefan-byte/caminos-tfg-sub000/internal/config"
	"github.com/codefan-byte/caminos-tfg-sub000/internal/result"
	"github.com/codefan-byte/caminos-tfg-sub000/router"
	"github.com/codefan-byte/caminos-tfg-sub000/routing"
	"github.com/codefan-byte/caminos-tfg-sub000/server"
	"github.com/codefan-byte/caminos-tfg-sub000/statistics"
	"github.com/codefan-byte/caminos-tfg-sub000/topology"
	"github.com/codefan-byte/caminos-tfg-sub000/traffic"
	"github.com/codefan-byte/caminos-tfg-sub000/vcpolicy"
	"github.com/sirupsen/logrus"
)

// GitID is stamped at build time via -ldflags "-X .../simulation.GitID=...";
// unstamped builds report "unknown".
var GitID = "unknown"

const queueCapacity = 64

// Simulation owns every component exactly once: servers, routers,
// traffic, routing, topology, the event queue and statistics.
type Simulation struct {
	Config   *config.Configuration
	Topology topology.Topology
	Routing  routing.Routing
	Rng      *rand.Rand

	servers []*server.Server
	routers []*router.Router

	queue *event.Queue
	stats *statistics.Statistics

	serverLinkDelay int
	routerLinkDelay int
}

// New builds a Simulation ready to Run from a validated Configuration.
func New(cfg *config.Configuration) *Simulation {
	topo := topology.New(cfg.Topology.Kind, cfg.Topology.Sizes)
	routingAlg := routing.New(cfg.Routing.Kind, cfg.Router.VirtualChannels)
	rng := rand.New(rand.NewSource(cfg.RandomSeed))

	sim := &Simulation{
		Config:          cfg,
		Topology:        topo,
		Routing:         routingAlg,
		Rng:             rng,
		queue:           event.NewQueue(queueCapacity),
		stats:           statistics.New(topo.NumServers(), cfg.StatisticsTemporalStep, cfg.StatisticsServerPercentiles, cfg.StatisticsPacketPercentiles),
		serverLinkDelay: linkDelay(cfg, "server-router"),
		routerLinkDelay: linkDelay(cfg, "router-router"),
	}

	sim.routers = make([]*router.Router, topo.NumRouters())
	for i := range sim.routers {
		numPorts := topo.Degree(i) + len(topo.ServersOf(i))
		numClients := numPorts * cfg.Router.VirtualChannels
		// Resources are (port, vc) pairs, not bare ports: two packets
		// destined to different VCs of the same output port must be able
		// to hold separate reservations simultaneously.
		numResources := numPorts * cfg.Router.VirtualChannels
		alloc := allocator.New(cfg.Router.Allocator, numClients, numResources, cfg.Router.AllocatorIterations)
		chain := vcpolicy.NewChain(cfg.Router.VirtualChannelPolicies, cfg.Router.VirtualChannels)
		sim.routers[i] = router.NewRouter(i, topo, routingAlg, chain, alloc,
			cfg.Router.VirtualChannels, cfg.Router.BufferSize, cfg.MaximumPacketSize,
			cfg.Router.Bubble, cfg.Router.AllowRequestBusyPort, cfg.Router.OutputPrioritizeLowestLabel,
			sim.routerLinkDelay, rand.New(rand.NewSource(cfg.RandomSeed+int64(i)+1)))
		// Self-reschedule every router from cycle 0 onward.
		sim.queue.Enqueue(event.Generic{Target: sim.routers[i]}, 0, event.End)
	}

	msgSize := messageSize(cfg)
	sim.servers = make([]*server.Server, topo.NumServers())
	for s := range sim.servers {
		routerIdx, port := topo.ServerPort(s)
		outgoing := buffer.NewCreditStatus(cfg.Router.VirtualChannels, cfg.Router.BufferSize)
		traf := traffic.New(cfg.Traffic.Kind, topo.NumServers(), msgSize, cfg.Traffic.Load)
		sim.servers[s] = server.NewServer(s, topology.RouterLocation(routerIdx, port),
			cfg.MaximumPacketSize, cfg.Router.VirtualChannels, outgoing,
			&buffer.RoundRobinAdmission{}, traf)
	}

	return sim
}

// Run executes warmup+measured cycles (or fewer, if every server's
// traffic reports Finished before then), returning the measured-phase
// Result.
func (sim *Simulation) Run() *result.Result {
	cfg := sim.Config
	total := cfg.Warmup + cfg.Measured
	var measuredCycles int64

	var cycle int64
	for ; cycle < total; cycle++ {
		if cycle == cfg.Warmup {
			sim.stats.Reset(cycle)
			measuredCycles = 0
			for _, s := range sim.servers {
				s.Traffic.Reset()
			}
		}
		if cycle >= cfg.Warmup && sim.allTrafficFinished() {
			break
		}

		sim.drainBegin(cycle)
		sim.drainEnd(cycle)
		sim.advanceServers(cycle)
		sim.queue.Advance()

		if cycle >= cfg.Warmup {
			measuredCycles++
		}
	}

	return sim.buildResult(cycle, measuredCycles)
}

func (sim *Simulation) allTrafficFinished() bool {
	for _, s := range sim.servers {
		if !s.Traffic.Finished() {
			return false
		}
	}
	return true
}

func (sim *Simulation) drainBegin(cycle int64) {
	for _, ev := range sim.queue.AccessBegin() {
		switch e := ev.(type) {
		case event.PhitToLocation:
			sim.handleArrival(e, cycle)
		case event.Acknowledge:
			sim.handleAcknowledge(e)
		default:
			panic(fmt.Sprintf("simulation: unexpected Begin-phase event %T", ev))
		}
	}
}

func (sim *Simulation) drainEnd(cycle int64) {
	for _, ev := range sim.queue.AccessEnd() {
		g, ok := ev.(event.Generic)
		if !ok {
			panic(fmt.Sprintf("simulation: unexpected End-phase event %T", ev))
		}
		for _, gen := range g.Target.ProcessEnd(cycle) {
			sim.queue.Enqueue(gen.Event, gen.Delay, gen.Phase)
		}
	}
}

func (sim *Simulation) advanceServers(cycle int64) {
	for _, s := range sim.servers {
		before := s.Stats.GeneratedPhits
		for _, gen := range s.Advance(cycle, sim.Rng, sim.serverLinkDelay) {
			sim.queue.Enqueue(gen.Event, gen.Delay, gen.Phase)
		}
		if s.Stats.GeneratedPhits > before {
			sim.stats.RecordGeneration(s.Index, cycle)
		}
	}
}

func (sim *Simulation) handleArrival(e event.PhitToLocation, cycle int64) {
	ph := e.Phit
	if e.New.IsServer {
		srv := sim.servers[e.New.Server]
		msg := ph.Packet.Message
		complete := srv.Consume(ph, cycle)
		sim.stats.RecordConsumption(e.New.Server, cycle, complete, cycle-msg.CreationCycle)
		if ph.IsEnd() {
			sim.stats.RecordPacketHops(ph.Packet.RoutingInfo.Hops, cycle-int64(ph.Packet.CycleIntoNetwork), cycle)
		}
		return
	}

	r := sim.routers[e.New.Router]
	if e.Previous.IsServer && ph.IsBegin() {
		dest := ph.Packet.Message.Destination
		sim.Routing.InitializeRoutingInfo(ph.Packet.RoutingInfo, sim.Topology, e.New.Router, dest, sim.Rng)
		ph.Packet.CycleIntoNetwork = int(cycle)
	}
	r.Insert(ph, e.New.Port)
	sim.stats.RecordLinkUse(e.New.Router, e.New.Port)
}

func (sim *Simulation) handleAcknowledge(e event.Acknowledge) {
	if e.Location.IsServer {
		sim.servers[e.Location.Server].Acknowledge(e.Message)
		return
	}
	sim.routers[e.Location.Router].Acknowledge(e.Location.Port, e.Message)
}

// buildResult assembles the measured-phase Result from accumulated
// statistics and process figures.
func (sim *Simulation) buildResult(finalCycle, measuredCycles int64) *result.Result {
	st := sim.stats

	var routerOccupancy float64
	var cyclesObserved int64
	for _, r := range sim.routers {
		for _, occ := range r.Stats.ReceptionOccupancy {
			routerOccupancy += occ
		}
		cyclesObserved += r.Stats.CyclesObserved
	}
	routerStats := map[string]float64{
		"average_reception_occupancy": safeDiv(routerOccupancy, float64(cyclesObserved)),
	}

	r := &result.Result{
		Cycle:                      finalCycle,
		InjectedLoad:               st.InjectedLoad(measuredCycles),
		AcceptedLoad:               st.AcceptedLoad(measuredCycles),
		AverageMessageDelay:        st.AverageMessageDelay(),
		AveragePacketNetworkDelay:  st.AveragePacketNetworkDelay(),
		ServerGenerationJainIndex:  st.ServerGenerationJainIndex(),
		ServerConsumptionJainIndex: st.ServerConsumptionJainIndex(),
		AveragePacketHops:          st.AveragePacketHops(),
		TotalPacketPerHopCount:     st.TotalPacketPerHopCount(),
		AverageLinkUtilization:     st.AverageLinkUtilization(measuredCycles),
		MaximumLinkUtilization:     st.MaximumLinkUtilization(measuredCycles),
		GitID:                      GitID,
		RouterAggregatedStatistics: routerStats,
		UserTime:                   processUserTime(),
		SystemTime:                 processSystemTime(),
	}
	if hw := processHighWaterMark(); hw > 0 {
		r.LinuxHighWaterMark = &hw
	}

	if len(sim.Config.StatisticsServerPercentiles) > 0 {
		r.ServerPercentiles = map[string]map[string]float64{
			"injected_load":         percentileLabels(st.ServerInjectedLoadPercentiles(measuredCycles)),
			"accepted_load":         percentileLabels(st.ServerAcceptedLoadPercentiles(measuredCycles)),
			"average_message_delay": percentileLabels(st.ServerAverageMessageDelayPercentiles()),
		}
	}
	if len(sim.Config.StatisticsPacketPercentiles) > 0 {
		r.PacketPercentiles = map[string]map[string]float64{
			"hops":  percentileLabels(st.PacketHopsPercentiles()),
			"delay": percentileLabels(st.PacketDelayPercentiles()),
		}
	}

	history := st.History()
	if len(history) > 0 {
		ts := &result.TemporalStatistics{}
		for _, snap := range history {
			ts.InjectedLoad = append(ts.InjectedLoad, snap.InjectedLoad)
			ts.AcceptedLoad = append(ts.AcceptedLoad, snap.AcceptedLoad)
			ts.AverageMessageDelay = append(ts.AverageMessageDelay, snap.AverageMessageDelay)
			ts.AveragePacketHops = append(ts.AveragePacketHops, snap.AveragePacketHops)
		}
		r.TemporalStatistics = ts
	}

	logrus.WithFields(logrus.Fields{
		"cycle":         r.Cycle,
		"injected_load": r.InjectedLoad,
		"accepted_load": r.AcceptedLoad,
	}).Info("simulation complete")

	return r
}

func percentileLabels(byP map[float64]float64) map[string]float64 {
	out := make(map[string]float64, len(byP))
	for p, v := range byP {
		out[fmt.Sprintf("p%g", p)] = v
	}
	return out
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
