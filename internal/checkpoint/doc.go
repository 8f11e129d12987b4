// Package checkpoint saves and loads training checkpoints.
//
// A checkpoint holds the global step, the last loss and a set of named
// float32 arrays (model and optimizer state dicts).
//
//	File Structure:
//	  [4 bytes: Magic "ANTC"]
//	  [4 bytes: Version (uint32 LE)]
//	  [8 bytes: Body Size (uint64 LE)]
//	  [Body: protobuf wire format]
//	  [32 bytes: SHA-256 of the body]
//
// The body is a protobuf message:
//
//	message Checkpoint {
//	  int64  step    = 1;
//	  double loss    = 2;
//	  repeated Tensor tensors = 3;
//	}
//	message Tensor {
//	  string name           = 1;
//	  repeated uint64 shape = 2 [packed = true];
//	  repeated fixed32 data = 3 [packed = true]; // IEEE 754 float32 bits
//	}
//
// Tensors are written sorted by name, so equal checkpoints encode to equal
// bytes. Unknown body fields are skipped on load.
//
// Example usage:
//
//	ckpt := checkpoint.FromStateDict(step, loss, model.StateDict())
//	if err := checkpoint.SaveFile("xor.antc", ckpt); err != nil {
//	    log.Fatal(err)
//	}
//
//	loaded, err := checkpoint.LoadFile("xor.antc")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = model.LoadStateDict(loaded.StateDict())
package checkpoint
