// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// +build linux

package ubi

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Request numbers from the kernel's include/uapi/mtd/ubi-user.h.
const (
	// UBI_IOCATT = _IOW('o', 64, struct ubi_attach_req)
	iocAttach = 0x40186f40

	// UBI_IOCDET = _IOW('o', 65, __s32)
	iocDetach = 0x40046f41
)

// attachReq mirrors struct ubi_attach_req. The kernel writes the assigned
// device number back into ubiNum.
type attachReq struct {
	ubiNum       int32
	mtdNum       int32
	vidHdrOffset int32
	padding      [12]int8
}

func ioctlAttach(fd uintptr, req *attachReq) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, iocAttach, uintptr(unsafe.Pointer(req))); errno != 0 {
		return errno
	}
	return nil
}

func ioctlDetach(fd uintptr, devNum int32) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, iocDetach, uintptr(unsafe.Pointer(&devNum))); errno != 0 {
		return errno
	}
	return nil
}
