// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// +build !linux

package ubi

import "syscall"

// UBI only exists on linux.

type attachReq struct {
	ubiNum       int32
	mtdNum       int32
	vidHdrOffset int32
	padding      [12]int8
}

func ioctlAttach(fd uintptr, req *attachReq) error {
	return syscall.EOPNOTSUPP
}

func ioctlDetach(fd uintptr, devNum int32) error {
	return syscall.EOPNOTSUPP
}
