// Package mpsc provides an unbounded multi-producer, single-consumer
// channel with cloneable send handles.
//
// Go channels need a fixed capacity and a single owner to close them.
// mpsc instead counts its senders: every goroutine that produces holds
// its own [Sender], obtained with [Sender.Clone], and closes it when it
// is done. The [Receiver] learns about end-of-stream only after the last
// sender is gone and every queued value has been delivered.
//
//	tx, rx := mpsc.New[uint64]()
//	for i := range 3 {
//	    go func(tx *mpsc.Sender[uint64]) {
//	        defer tx.Close()
//	        _ = tx.Send(uint64(i))
//	    }(tx.Clone())
//	}
//	tx.Close()
//	for {
//	    v, err := rx.Recv()
//	    if errors.Is(err, mpsc.ErrClosed) {
//	        break
//	    }
//	    use(v)
//	}
//
// # Guarantees
//
//   - Send never blocks; the queue has no capacity bound.
//   - Values from one sender are received in the order they were sent.
//     Nothing is guaranteed about interleaving between senders.
//   - Send fails with [ErrDisconnected] once the receiver is closed.
//   - Recv blocks until a value arrives and returns [ErrClosed] only when
//     the queue is empty and no sender is open.
//
// Besides [Receiver.Recv] the receiver offers [Receiver.TryRecv],
// [Receiver.RecvTimeout], [Receiver.RecvContext], and [Receiver.Chan]
// for use in select statements.
//
// Programs that want a precise shutdown point can ignore end-of-stream
// altogether and send an explicit sentinel value instead, keeping one
// sender open until the sentinel has been sent. See the tally
// subpackage.
package mpsc
