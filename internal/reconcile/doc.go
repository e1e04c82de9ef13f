// Package reconcile decides which certificates need work and runs the
// reconciliation cycle.
//
// The Engine compares each required certificate name against its record:
//
//	no usable chain file           -> missing
//	fewer than 10 whole days left  -> expiring
//	declared domain not in SANs    -> mismatch
//
// Extra SANs on the certificate never trigger a renewal. Names present in
// the store but not declared anywhere are left alone.
//
// A cycle runs these steps in order:
//
//  1. refresh static TLS assets (failure is logged)
//  2. scan, inspect and decide
//  3. bootstrap every missing certificate
//  4. scan again; any name still missing fails the cycle
//  5. wait for the proxy, then reload it
//  6. renew every expiring or mismatched certificate
//  7. if anything was renewed, reload again and notify
//
// Bootstrap and renew failures abort the cycle. Reload and notify failures
// are logged only. RunForever repeats the cycle every Period.
package reconcile
