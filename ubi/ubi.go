// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package ubi talks to the UBI (Unsorted Block Images) layer of a running
// kernel. Attach and detach requests are issued as ioctls on the UBI
// control device node; everything else is read out of sysfs, which is how
// libubi does it. The package does not know anything about flash
// management itself; it is only a client of the kernel's control surface.
package ubi

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// DevNumAuto asks the kernel to pick the next free UBI device number.
	DevNumAuto = -1

	// DefaultCtrlDev is where udev normally places the control node.
	DefaultCtrlDev = "/dev/ubi_ctrl"

	defaultSysfs = "/sys"
)

// Session is an open handle on the UBI control device node. It is not safe
// for concurrent use and must be closed by the caller.
type Session struct {
	ctrl  *os.File
	sysfs string

	// ioctl entry points, replaced by tests.
	attachIoctl func(fd uintptr, req *attachReq) error
	detachIoctl func(fd uintptr, devNum int32) error
}

// Open opens a session against the given UBI control device node,
// typically DefaultCtrlDev.
func Open(node string) (*Session, error) {
	f, err := os.OpenFile(node, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	return &Session{
		ctrl:        f,
		sysfs:       defaultSysfs,
		attachIoctl: ioctlAttach,
		detachIoctl: ioctlDetach,
	}, nil
}

// Close releases the control device node.
func (s *Session) Close() error {
	return s.ctrl.Close()
}

// Info is a snapshot of what the running kernel's UBI layer supports.
type Info struct {
	// Version of the UBI implementation.
	Version int

	// Major and minor numbers of the control device, or -1/-1 when the
	// kernel predates the attach/detach interface.
	CtrlMajor int
	CtrlMinor int
}

// AttachSupported reports whether the kernel exposes the attach/detach
// interface. Kernels older than 2.6.25 ship UBI without it.
func (i *Info) AttachSupported() bool {
	return i.CtrlMajor != -1
}

// Info queries the UBI layer's global state from sysfs. A kernel with UBI
// loaded but no control device is not an error; AttachSupported on the
// result reports false in that case.
func (s *Session) Info() (*Info, error) {
	info := &Info{CtrlMajor: -1, CtrlMinor: -1}

	v, err := readSysfsInt(filepath.Join(s.sysfs, "class/ubi/version"))
	if err != nil {
		return nil, err
	}
	info.Version = v

	data, err := ioutil.ReadFile(filepath.Join(s.sysfs, "class/misc/ubi_ctrl/dev"))
	if os.IsNotExist(err) {
		return info, nil
	}
	if err != nil {
		return nil, err
	}
	if info.CtrlMajor, info.CtrlMinor, err = parseDevt(strings.TrimSpace(string(data))); err != nil {
		return nil, err
	}
	return info, nil
}

// AttachRequest carries the parameters of a single attach operation.
type AttachRequest struct {
	// DevNum is the UBI device number the new device should get, or
	// DevNumAuto to let the kernel choose one.
	DevNum int

	// MTDNum is the number of the MTD device to attach.
	MTDNum int

	// VIDHdrOffset overrides the VID header placement. Zero selects the
	// kernel's optimal default.
	VIDHdrOffset int
}

// Attach asks the kernel to attach an MTD device to UBI and returns the
// number of the resulting UBI device. When req.DevNum is DevNumAuto the
// returned number is the one the kernel assigned.
func (s *Session) Attach(req *AttachRequest) (int, error) {
	r := attachReq{
		ubiNum:       int32(req.DevNum),
		mtdNum:       int32(req.MTDNum),
		vidHdrOffset: int32(req.VIDHdrOffset),
	}
	if err := s.attachIoctl(s.ctrl.Fd(), &r); err != nil {
		return -1, err
	}
	// The kernel writes the assigned number back into the request.
	return int(r.ubiNum), nil
}

// Detach asks the kernel to detach the given UBI device from its MTD
// backing device.
func (s *Session) Detach(devNum int) error {
	return s.detachIoctl(s.ctrl.Fd(), int32(devNum))
}

// DevInfo describes one attached UBI device.
type DevInfo struct {
	DevNum int
	MTDNum int

	// Logical eraseblock accounting. Available counts eraseblocks left
	// for user volumes after UBI's own reservations.
	TotalLEBs int
	AvailLEBs int
	LEBSize   int64

	// Byte capacities derived from the eraseblock counts.
	TotalBytes int64
	AvailBytes int64
}

// DevInfo queries sysfs for the state of UBI device devNum.
func (s *Session) DevInfo(devNum int) (*DevInfo, error) {
	dir := filepath.Join(s.sysfs, "class/ubi", fmt.Sprintf("ubi%d", devNum))
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}

	dev := &DevInfo{DevNum: devNum}
	var err error
	if dev.MTDNum, err = readSysfsInt(filepath.Join(dir, "mtd_num")); err != nil {
		return nil, err
	}
	if dev.TotalLEBs, err = readSysfsInt(filepath.Join(dir, "total_eraseblocks")); err != nil {
		return nil, err
	}
	if dev.AvailLEBs, err = readSysfsInt(filepath.Join(dir, "avail_eraseblocks")); err != nil {
		return nil, err
	}
	lebSize, err := readSysfsInt(filepath.Join(dir, "eraseblock_size"))
	if err != nil {
		return nil, err
	}
	dev.LEBSize = int64(lebSize)
	dev.TotalBytes = dev.LEBSize * int64(dev.TotalLEBs)
	dev.AvailBytes = dev.LEBSize * int64(dev.AvailLEBs)
	return dev, nil
}

// DevByMTD returns the number of the UBI device that MTD device mtdNum is
// attached to, or an error if it is not attached at all.
func (s *Session) DevByMTD(mtdNum int) (int, error) {
	dirs, err := filepath.Glob(filepath.Join(s.sysfs, "class/ubi/ubi[0-9]*"))
	if err != nil {
		return -1, err
	}
	for _, dir := range dirs {
		name := filepath.Base(dir)
		if strings.Contains(name, "_") {
			// ubiN_M entries are volumes, not devices.
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(name, "ubi"))
		if err != nil {
			continue
		}
		m, err := readSysfsInt(filepath.Join(dir, "mtd_num"))
		if err != nil {
			continue
		}
		if m == mtdNum {
			return n, nil
		}
	}
	return -1, fmt.Errorf("mtd%d is not attached to UBI", mtdNum)
}

// parseDevt splits a sysfs "MAJOR:MINOR" dev file value.
func parseDevt(s string) (major, minor int, err error) {
	i := strings.IndexByte(s, ':')
	if i < 0 {
		return -1, -1, fmt.Errorf("malformed device numbers %q", s)
	}
	if major, err = strconv.Atoi(s[:i]); err != nil {
		return -1, -1, fmt.Errorf("malformed device numbers %q", s)
	}
	if minor, err = strconv.Atoi(s[i+1:]); err != nil {
		return -1, -1, fmt.Errorf("malformed device numbers %q", s)
	}
	return major, minor, nil
}

func readSysfsInt(path string) (int, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("malformed sysfs file %q: %w", path, err)
	}
	return n, nil
}
