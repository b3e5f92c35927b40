// Package synod implements the per-process state machine
// of the single-decree Paxos (Synod) consensus protocol,
// for a group of N processes agreeing on one binary value
// despite up to f < N/2 processes crashing.
//
// Every process is both a proposer, driving its own rounds,
// and an acceptor, answering the rounds of every process including itself.
// This package handles only the consensus logic,
// leaving message delivery, process scheduling, and group setup
// to the client of this package (see the sim package for one such client).
//
// Configuring and launching a group
//
// The client assigns each process a unique number from 0 through N-1
// and creates it with NewProcess.
// It may then change optional Process configuration parameters,
// such as Process.Rand or Process.Scheduler,
// before the process handles its first message.
// The client then delivers a SetPeers message carrying the directory
// of all N processes, indexed by process number and including the process itself,
// optionally an InjectCrash message to make the process error-prone,
// and finally a Launch message.
// Thereafter the processes drive the protocol among themselves
// until some process decides and broadcasts its decision.
// A Hold message stops a process from starting new rounds
// while leaving its acceptor role intact.
//
// Ballots and quorums
//
// Process i proposes with ballots i, i+N, i+2N, ...,
// so no two processes ever use the same ballot.
// A proposer moves from the prepare to the impose phase
// on promises from a strict majority of the group,
// and decides on acknowledgments from at least half of it.
// Both counts include the proposer's own answers as acceptor.
// Refused ballots are retried after Process.RetryDelay with a fresh ballot,
// as long as the process is still active when the retry fires.
//
// Crash model
//
// An InjectCrash message makes a process error-prone.
// An error-prone process falls silent with probability Process.CrashProb
// on each message it receives, before handling that message.
// A silent process never changes state or sends anything again.
//
// Message transmission
//
// Processes send messages through the Peer interfaces in the directory.
// The messaging layer must deliver each process's messages
// to Process.Receive one at a time, preserving the order
// between any given sender and receiver.
// Messages are trusted: nothing is validated.
//
// Concurrency control
//
// A Process is not thread safe: it must be driven from a single goroutine.
// Its accessors may be used once that goroutine has stopped.
// Observers and Schedulers are called from the process's goroutine.
//
package synod
