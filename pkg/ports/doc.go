/*
Package ports defines the driven ports (interfaces) of the plan learner.

These interfaces decouple the induction pipeline from where plans come from,
where domain descriptions are read and where learned results are kept.

# Key Interfaces

  - PlanSource: Produces the plan corpus (e.g., from a directory of plan files or memory).
  - DomainSignature: Answers action parameter types and type generality questions.
  - ResultStore: Caches learned results by corpus fingerprint.
  - DistributedLocker: Serializes learning of the same corpus across replicas.
*/
package ports
